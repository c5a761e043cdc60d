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
	"net"
)

// addrTokens maps the special ADDR tokens of spec.md §6.1 to the literal
// host string a net.Dial/net.Listen address is built from.
var addrTokens = map[string]string{
	"":             "",
	"Any":          "0.0.0.0",
	"Broadcast":    "255.255.255.255",
	"LoopBack":     "127.0.0.1",
	"localhost":    "localhost",
	"None":         "",
	"IPv6Any":      "::",
	"IPv6Loopback": "::1",
	"IPv6None":     "::",
}

// resolveAddr maps a spec-string ADDR token to the host part of a dial/listen
// address. A token not in addrTokens must be a literal numeric IP address.
func resolveAddr(token string) (string, error) {
	if host, ok := addrTokens[token]; ok {
		return host, nil
	}
	if net.ParseIP(token) == nil {
		return "", ErrorInvalidSpec.Error(errors.New("addr is neither a special token nor a numeric IP address: " + token))
	}
	return token, nil
}
