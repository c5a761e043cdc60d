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
	"crypto/tls"

	libptc "github.com/mosaicsys/serialio/network/protocol"
)

// ClientTLS holds the TLS settings for a dialed connection. It only applies
// to the TCP family; Validate rejects it for UDP and Unix sockets.
type ClientTLS struct {
	Enabled    bool
	ServerName string
	Config     tls.Config
}

// Client describes an endpoint a carrier dials out to.
type Client struct {
	Network libptc.NetworkProtocol
	Address string
	TLS     ClientTLS
}

// Validate checks the protocol, address syntax, and TLS settings. It never
// dials; address checks are purely syntactic (net.ResolveTCPAddr and kin).
func (c Client) Validate() error {
	if !c.Network.IsNetwork() {
		return ErrInvalidProtocol
	}

	if c.TLS.Enabled {
		if !isTCPFamily(c.Network) {
			return ErrInvalidTLSConfig
		}
		if c.TLS.ServerName == "" {
			return ErrInvalidTLSConfig
		}
	}

	return validateAddress(c.Network, c.Address)
}

// GetTLS reports whether TLS is enabled and, if so, the config and server
// name to use when dialing. When disabled it returns a nil config and an
// empty server name regardless of what was stored.
func (c Client) GetTLS() (bool, *tls.Config, string) {
	if !c.TLS.Enabled {
		return false, nil, ""
	}

	cfg := c.TLS.Config
	return true, &cfg, c.TLS.ServerName
}

// DefaultTLS sets the TLS config to use when none has been provided. A nil
// cfg is a no-op.
func (c *Client) DefaultTLS(cfg *tls.Config) {
	if cfg == nil {
		return
	}
	c.TLS.Config = *cfg
}
