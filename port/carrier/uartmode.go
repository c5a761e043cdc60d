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

package carrier

import (
	"fmt"
	"strconv"
	"strings"
)

// WireMode identifies the electrical/handshake arrangement a UART
// connection speaks, parsed from the compact mode token carried in a
// port's spec string (see the port factory, C7).
type WireMode uint8

const (
	WireRS232_3Wire WireMode = iota
	WireRS232_4Wire
	WireRS232_5Wire
	WireRS232_7Wire
	WireRS485_3WireEcho
	WireRS485_3WireNoEcho
	WireFiberNormal
	WireFiberInverted
)

var wireModeTokens = map[string]WireMode{
	"rs232-3w":        WireRS232_3Wire,
	"rs232-4w":        WireRS232_4Wire,
	"rs232-5w":        WireRS232_5Wire,
	"rs232-7w":        WireRS232_7Wire,
	"rs485-3w-echo":   WireRS485_3WireEcho,
	"rs485-3w-noecho": WireRS485_3WireNoEcho,
	"fiber":           WireFiberNormal,
	"fiber-inv":       WireFiberInverted,
}

// Parity selects the UART parity bit behavior.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// Mode is the fully parsed set of UART parameters a compact mode token
// (e.g. "9600-8n1-rs232-4w") expands to: baud rate, data bits, stop bits,
// parity, and wire/handshake arrangement.
type Mode struct {
	Baud     int
	DataBits int
	StopBits int
	Parity   Parity
	Wire     WireMode
}

// ParseMode parses a token of the form "<baud>-<databits><parity><stopbits>-<wire>",
// e.g. "115200-8n1-rs232-4w" or "9600-7e1-rs485-3w-echo".
func ParseMode(token string) (Mode, error) {
	parts := strings.SplitN(token, "-", 3)
	if len(parts) != 3 {
		return Mode{}, fmt.Errorf("carrier: invalid uart mode token %q", token)
	}

	baud, err := strconv.Atoi(parts[0])
	if err != nil || baud <= 0 {
		return Mode{}, fmt.Errorf("carrier: invalid uart baud in %q", token)
	}

	frame := parts[1]
	if len(frame) != 3 {
		return Mode{}, fmt.Errorf("carrier: invalid uart frame %q", token)
	}
	dataBits, err := strconv.Atoi(string(frame[0]))
	if err != nil || dataBits < 5 || dataBits > 8 {
		return Mode{}, fmt.Errorf("carrier: invalid uart data bits in %q", token)
	}
	var parity Parity
	switch frame[1] {
	case 'n', 'N':
		parity = ParityNone
	case 'o', 'O':
		parity = ParityOdd
	case 'e', 'E':
		parity = ParityEven
	default:
		return Mode{}, fmt.Errorf("carrier: invalid uart parity in %q", token)
	}
	stopBits, err := strconv.Atoi(string(frame[2]))
	if err != nil || stopBits < 1 || stopBits > 2 {
		return Mode{}, fmt.Errorf("carrier: invalid uart stop bits in %q", token)
	}

	wireToken := strings.ToLower(parts[2])
	wire, ok := wireModeTokens[wireToken]
	if !ok {
		return Mode{}, fmt.Errorf("carrier: unknown uart wire mode %q", wireToken)
	}

	return Mode{
		Baud:     baud,
		DataBits: dataBits,
		StopBits: stopBits,
		Parity:   parity,
		Wire:     wire,
	}, nil
}
