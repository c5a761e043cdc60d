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
	"net"
	"strconv"

	libptc "github.com/mosaicsys/serialio/network/protocol"
	libmux "github.com/mosaicsys/serialio/mux"
	"github.com/mosaicsys/serialio/port"
	"github.com/mosaicsys/serialio/port/carrier"
	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

// NewCarrier builds the carrier.Carrier a spec string names, without
// constructing a port around it. Most callers want New instead.
func NewCarrier(spec string) (carrier.Carrier, error) {
	d, err := ParseSpec(spec)
	if err != nil {
		return nil, err
	}
	return buildCarrier(d)
}

func buildCarrier(d Descriptor) (carrier.Carrier, error) {
	switch d.Kind {
	case KindNull:
		return carrier.NewNull(), nil

	case KindCom:
		return carrier.NewUART(d.ComPortName, d.UARTMode), nil

	case KindTCPClient:
		return carrier.NewTCPClient(sckcfg.Client{
			Network: netProtocol(d.Addr, libptc.NetworkTCP, libptc.NetworkTCP6),
			Address: hostPort(d.Addr, d.Port),
		}), nil

	case KindTCPServer:
		return carrier.NewTCPServer(sckcfg.Server{
			Network: netProtocol(d.Addr, libptc.NetworkTCP, libptc.NetworkTCP6),
			Address: hostPort(d.Addr, d.Port),
		}), nil

	case KindUDPClient:
		return carrier.NewUDPClient(sckcfg.Client{
			Network: netProtocol(d.Addr, libptc.NetworkUDP, libptc.NetworkUDP6),
			Address: hostPort(d.Addr, d.Port),
		}), nil

	case KindUDPServer:
		return carrier.NewUDPServer(sckcfg.Server{
			Network: netProtocol(d.Addr, libptc.NetworkUDP, libptc.NetworkUDP6),
			Address: hostPort(d.Addr, d.Port),
		}), nil

	default:
		return nil, ErrorInvalidSpec.Error()
	}
}

// netProtocol picks the IPv6 variant of a protocol family when addr is
// literally an IPv6 address or one of the IPv6-specific ADDR tokens; the
// v4/unspecified variant otherwise (net.Dial/net.Listen on the unspecified
// variant still accepts either family for "", "localhost", and hostnames).
func netProtocol(addr string, v4, v6 libptc.NetworkProtocol) libptc.NetworkProtocol {
	if addr == "::" || addr == "::1" {
		return v6
	}
	if ip := net.ParseIP(addr); ip != nil && ip.To4() == nil {
		return v6
	}
	return v4
}

func hostPort(addr string, port uint16) string {
	return net.JoinHostPort(addr, strconv.Itoa(int(port)))
}

// New parses spec and returns a running-ready port.Port wired to the carrier
// it names. mplex may be nil, matching port.New.
func New(spec string, cfg port.Config, mplex libmux.Multiplexer) (port.Port, error) {
	car, err := NewCarrier(spec)
	if err != nil {
		return nil, err
	}
	return port.New(cfg, car, mplex)
}

// NewOrNull is New, except a spec string that fails to parse falls back to a
// NullPort carrier instead of returning an error — the graceful-fallback
// mode spec.md §7 describes as an alternative to raising
// InvalidPortConfigSpecStrException.
func NewOrNull(spec string, cfg port.Config, mplex libmux.Multiplexer) (port.Port, error) {
	car, err := NewCarrier(spec)
	if err != nil {
		car = carrier.NewNull()
	}
	return port.New(cfg, car, mplex)
}

// NewRegistered is New, except the constructed port is also registered into
// reg under cfg.Name so a caller elsewhere in the process can look it up by
// name instead of needing the *port.Port this call returns. Registration
// failure (a duplicate name already in reg) is returned instead of the
// port, and nothing is left half-registered.
func NewRegistered(reg *port.Registry, spec string, cfg port.Config, mplex libmux.Multiplexer) (port.Port, error) {
	p, err := New(spec, cfg, mplex)
	if err != nil {
		return nil, err
	}
	if err := reg.Register(cfg.Name, p); err != nil {
		return nil, err
	}
	return p, nil
}
