/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package factory

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mosaicsys/serialio/port/carrier"
)

// parseUARTConfig parses the §6.1 UARTCFG token:
//
//	BAUD "," PARITYCHAR "," DATABITS "," STOPBITS [ "," MODECHAR ]
//
// This is a distinct grammar from carrier.ParseMode's own mode token (field
// order, separators, and character sets both differ) — see DESIGN.md for why
// the two are not unified.
func parseUARTConfig(token string) (carrier.Mode, error) {
	parts := strings.Split(token, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return carrier.Mode{}, ErrorInvalidSpec.Error(errors.New("uartConfig must have 4 or 5 comma-separated fields"))
	}

	baud, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || baud <= 0 {
		return carrier.Mode{}, ErrorInvalidSpec.Error(errors.New("uartConfig has an invalid BAUD field"))
	}

	parity, err := parseParityChar(parts[1])
	if err != nil {
		return carrier.Mode{}, err
	}

	dataBits, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || dataBits < 5 || dataBits > 8 {
		return carrier.Mode{}, ErrorInvalidSpec.Error(errors.New("uartConfig has an invalid DATABITS field"))
	}

	stopBits, err := parseStopBits(parts[3])
	if err != nil {
		return carrier.Mode{}, err
	}

	wire := carrier.WireRS232_3Wire
	if len(parts) == 5 {
		wire, err = parseModeChar(parts[4])
		if err != nil {
			return carrier.Mode{}, err
		}
	}

	return carrier.Mode{
		Baud:     baud,
		DataBits: dataBits,
		StopBits: stopBits,
		Parity:   parity,
		Wire:     wire,
	}, nil
}

func parseParityChar(field string) (carrier.Parity, error) {
	f := strings.ToLower(strings.TrimSpace(field))
	switch f {
	case "n":
		return carrier.ParityNone, nil
	case "o":
		return carrier.ParityOdd, nil
	case "e":
		return carrier.ParityEven, nil
	case "s", "m", "0", "1":
		return 0, ErrorUnsupportedCarrierOption.Error(errors.New("space/mark/stick parity (" + field + ") is not supported by this carrier build"))
	default:
		return 0, ErrorInvalidSpec.Error(errors.New("uartConfig has an invalid PARITYCHAR field"))
	}
}

func parseStopBits(field string) (int, error) {
	f := strings.TrimSpace(field)
	switch f {
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	case "0", "1.5":
		return 0, ErrorUnsupportedCarrierOption.Error(errors.New("stop bits value " + f + " is not supported by this carrier build"))
	default:
		return 0, ErrorInvalidSpec.Error(errors.New("uartConfig has an invalid STOPBITS field"))
	}
}

// modeCharWire maps the §6.1 MODECHAR tokens this carrier build implements.
// "r" (RS-232 9-wire) and "4" (RS-485 5-wire) are valid per the grammar but
// have no corresponding carrier.WireMode value in this build; they are
// rejected with ErrorUnsupportedCarrierOption rather than silently mapped to
// the nearest neighbor.
var modeCharWire = map[string]carrier.WireMode{
	"2": carrier.WireRS232_3Wire,
	"c": carrier.WireRS232_5Wire,
	"d": carrier.WireRS232_7Wire,
	"m": carrier.WireRS485_3WireEcho,
	"h": carrier.WireRS485_3WireNoEcho,
	"f": carrier.WireFiberNormal,
	"g": carrier.WireFiberInverted,
}

func parseModeChar(field string) (carrier.WireMode, error) {
	f := strings.ToLower(strings.TrimSpace(field))
	if wire, ok := modeCharWire[f]; ok {
		return wire, nil
	}
	if f == "r" || f == "4" {
		return 0, ErrorUnsupportedCarrierOption.Error(errors.New("wire mode " + f + " is not supported by this carrier build"))
	}
	return 0, ErrorInvalidSpec.Error(errors.New("uartConfig has an invalid MODECHAR field"))
}
