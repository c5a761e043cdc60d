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
	"regexp"
	"strconv"
	"strings"

	"github.com/mosaicsys/serialio/port/carrier"
)

// Kind identifies which carrier family a parsed spec string names.
type Kind uint8

const (
	KindNull Kind = iota
	KindCom
	KindTCPClient
	KindTCPServer
	KindUDPClient
	KindUDPServer
)

// Descriptor is the fully parsed form of a spec string: enough to build the
// matching carrier.Carrier without re-touching the original text.
type Descriptor struct {
	Kind Kind

	// ComPort fields.
	ComPortName string
	UARTMode    carrier.Mode

	// Network fields.
	Addr string
	Port uint16
}

var tagPattern = regexp.MustCompile(`^<\s*(\w+)((?:\s+\w+\s*=\s*'[^']*')*)\s*/?\s*>(?:</\s*\w+\s*>)?$`)
var attrPattern = regexp.MustCompile(`(\w+)\s*=\s*'([^']*)'`)

// ParseSpec parses spec against the §6.1 grammar: nullspec | comspec |
// netspec. It never builds a carrier or touches the filesystem/network —
// that is New's job.
func ParseSpec(spec string) (Descriptor, error) {
	s := strings.TrimSpace(spec)

	m := tagPattern.FindStringSubmatch(s)
	if m == nil {
		return Descriptor{}, ErrorInvalidSpec.Error(errors.New("spec does not match the <Tag attr='v'.../> grammar"))
	}

	tag := m[1]
	attrs := make(map[string]string)
	for _, am := range attrPattern.FindAllStringSubmatch(m[2], -1) {
		attrs[am[1]] = am[2]
	}

	switch tag {
	case "NullPort":
		return Descriptor{Kind: KindNull}, nil

	case "ComPort":
		name, ok := attrs["port"]
		if !ok || name == "" {
			return Descriptor{}, ErrorInvalidSpec.Error(errors.New("ComPort requires a non-empty port attribute"))
		}
		cfgToken, ok := attrs["uartConfig"]
		if !ok || cfgToken == "" {
			return Descriptor{}, ErrorInvalidSpec.Error(errors.New("ComPort requires a uartConfig attribute"))
		}
		mode, err := parseUARTConfig(cfgToken)
		if err != nil {
			return Descriptor{}, err
		}
		return Descriptor{Kind: KindCom, ComPortName: name, UARTMode: mode}, nil

	case "TcpClient", "TcpServer", "UdpClient", "UdpServer":
		portStr, ok := attrs["port"]
		if !ok {
			return Descriptor{}, ErrorInvalidSpec.Error(errors.New("network spec requires a port attribute"))
		}
		portNum, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return Descriptor{}, ErrorInvalidSpec.Error(errors.New("network spec port is not a valid 0..65535 number"))
		}

		addrToken := attrs["addr"]
		addr, err := resolveAddr(addrToken)
		if err != nil {
			return Descriptor{}, err
		}

		var kind Kind
		switch tag {
		case "TcpClient":
			kind = KindTCPClient
		case "TcpServer":
			kind = KindTCPServer
		case "UdpClient":
			kind = KindUDPClient
		case "UdpServer":
			kind = KindUDPServer
		}
		return Descriptor{Kind: kind, Addr: addr, Port: uint16(portNum)}, nil

	default:
		return Descriptor{}, ErrorInvalidSpec.Error(errors.New("unknown spec tag " + tag))
	}
}
