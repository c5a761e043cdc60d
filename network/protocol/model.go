/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package protocol

// NetworkProtocol identifies the carrier a socket configuration dials or
// listens on. The zero value, NetworkEmpty, is never a valid carrier choice.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

var names = map[NetworkProtocol]string{
	NetworkUnix:     "unix",
	NetworkTCP:      "tcp",
	NetworkTCP4:     "tcp4",
	NetworkTCP6:     "tcp6",
	NetworkUDP:      "udp",
	NetworkUDP4:     "udp4",
	NetworkUDP6:     "udp6",
	NetworkIP:       "ip",
	NetworkIP4:      "ip4",
	NetworkIP6:      "ip6",
	NetworkUnixGram: "unixgram",
}

// Int returns the ordinal value of the protocol, 0 for an unknown value.
func (n NetworkProtocol) Int() int {
	if _, ok := names[n]; !ok {
		return 0
	}

	return int(n)
}

// Int64 is Int as an int64.
func (n NetworkProtocol) Int64() int64 {
	return int64(n.Int())
}

// String returns the lowercase network name as accepted by net.Dial / net.Listen,
// or "" for an unknown value.
func (n NetworkProtocol) String() string {
	return names[n]
}

// Code is an alias of String, used by configuration serializers.
func (n NetworkProtocol) Code() string {
	return n.String()
}

// IsNetwork returns true for every protocol that is not NetworkEmpty.
func (n NetworkProtocol) IsNetwork() bool {
	_, ok := names[n]
	return ok
}

// IsUnix returns true for NetworkUnix and NetworkUnixGram.
func (n NetworkProtocol) IsUnix() bool {
	return n == NetworkUnix || n == NetworkUnixGram
}

// IsDatagram returns true for the protocols that deliver datagram semantics
// (UDP family and unix datagram sockets).
func (n NetworkProtocol) IsDatagram() bool {
	switch n {
	case NetworkUDP, NetworkUDP4, NetworkUDP6, NetworkUnixGram:
		return true
	default:
		return false
	}
}
