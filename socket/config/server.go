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
	"time"

	libprm "github.com/mosaicsys/serialio/file/perm"
	libptc "github.com/mosaicsys/serialio/network/protocol"
)

// ServerTLS holds the TLS settings for a listener. Enable and Enabled are
// both honored (either flips TLS on) since configuration loaded from older
// and newer call sites in this codebase spell the flag differently.
type ServerTLS struct {
	Enable  bool
	Enabled bool
	Config  tls.Config
}

func (t ServerTLS) enabled() bool {
	return t.Enable || t.Enabled
}

// Server describes an endpoint a carrier listens on. PermFile and GroupPerm
// only apply to Unix and Unixgram listeners, where they set the socket
// file's mode and group after bind. GroupPerm of -1 leaves the group as
// whatever the process's umask/primary group would produce.
type Server struct {
	Network        libptc.NetworkProtocol
	Address        string
	PermFile       libprm.Perm
	GroupPerm      int32
	ConIdleTimeout time.Duration
	TLS            ServerTLS
}

// Validate checks the protocol, address syntax, Unix group ID, and TLS
// settings. It never binds; address checks are purely syntactic.
func (s Server) Validate() error {
	if !s.Network.IsNetwork() {
		return ErrInvalidProtocol
	}

	if s.TLS.enabled() && !isTCPFamily(s.Network) {
		return ErrInvalidTLSConfig
	}

	if s.Network.IsUnix() && s.GroupPerm > MaxGID {
		return ErrInvalidGroup
	}

	return validateAddress(s.Network, s.Address)
}

// GetTLS reports whether TLS is enabled and, if so, the config to use when
// accepting connections. When disabled it returns a nil config.
func (s Server) GetTLS() (bool, *tls.Config) {
	if !s.TLS.enabled() {
		return false, nil
	}

	cfg := s.TLS.Config
	return true, &cfg
}

// DefaultTLS sets the TLS config to use when none has been provided. A nil
// cfg is a no-op.
func (s *Server) DefaultTLS(cfg *tls.Config) {
	if cfg == nil {
		return
	}
	s.TLS.Config = *cfg
}
