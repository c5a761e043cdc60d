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

package config

import (
	"net"
	"runtime"

	libptc "github.com/mosaicsys/serialio/network/protocol"
)

func isTCPFamily(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkTCP, libptc.NetworkTCP4, libptc.NetworkTCP6:
		return true
	default:
		return false
	}
}

func isUDPFamily(n libptc.NetworkProtocol) bool {
	switch n {
	case libptc.NetworkUDP, libptc.NetworkUDP4, libptc.NetworkUDP6:
		return true
	default:
		return false
	}
}

// validateAddress checks address against the wire syntax network expects.
// Unix and Unixgram are rejected outright on Windows: the protocol itself
// is unsupported there, not merely the address.
func validateAddress(network libptc.NetworkProtocol, address string) error {
	switch {
	case isTCPFamily(network):
		_, err := net.ResolveTCPAddr(network.String(), address)
		return err
	case isUDPFamily(network):
		_, err := net.ResolveUDPAddr(network.String(), address)
		return err
	case network.IsUnix():
		if runtime.GOOS == "windows" {
			return ErrInvalidProtocol
		}
		_, err := net.ResolveUnixAddr(network.String(), address)
		return err
	default:
		return ErrInvalidProtocol
	}
}
