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
	"crypto/tls"
	"net"
	"sync"

	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

// TCPServer owns a listen socket in addition to whatever data socket is
// currently accepted. It accepts at most one client at a time: a new
// incoming connection drops the current one first. InnerIsConnected is
// false (WaitingForConnect, from the port base's perspective) whenever no
// client is currently accepted, even while the listener itself is up.
type TCPServer struct {
	cfg sckcfg.Server

	mu       sync.Mutex
	listener net.Listener
	conn     net.Conn
	reader   *asyncReader
}

// NewTCPServer builds a TCPServer from a validated listen configuration.
func NewTCPServer(cfg sckcfg.Server) *TCPServer {
	return &TCPServer{cfg: cfg}
}

func (s *TCPServer) InnerGoOnline(_ string, _ bool) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.mu.Unlock()

	ln, err := net.Listen(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		return err
	}

	if ok, tlsCfg := s.cfg.GetTLS(); ok {
		ln = tls.NewListener(ln, tlsCfg)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go s.acceptLoop(ln)
	return nil
}

func (s *TCPServer) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		if s.conn != nil {
			_ = s.conn.Close()
		}
		s.conn = conn
		s.reader = newAsyncReader(conn.Read)
		s.mu.Unlock()
	}
}

func (s *TCPServer) InnerGoOffline(_ string) error {
	s.mu.Lock()
	ln := s.listener
	conn := s.conn
	s.listener = nil
	s.conn = nil
	s.reader = nil
	s.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if ln != nil {
		if lerr := ln.Close(); lerr != nil && err == nil {
			err = lerr
		}
	}
	return err
}

func (s *TCPServer) InnerReadBytesAvailable() int {
	s.mu.Lock()
	r := s.reader
	s.mu.Unlock()
	if r == nil {
		return 0
	}
	return r.Available()
}

func (s *TCPServer) InnerWriteSpaceAvailable() int {
	if s.InnerIsConnected() {
		return 4096
	}
	return 0
}

func (s *TCPServer) InnerIsAnyWriteSpaceAvailable() bool {
	return s.InnerIsConnected()
}

func (s *TCPServer) InnerHandleRead(buf []byte, start, max int) (int, ReadOutcome, error) {
	s.mu.Lock()
	r := s.reader
	conn := s.conn
	s.mu.Unlock()
	if r == nil {
		return 0, ReadOutcomeNone, ErrNotConnected
	}

	n := r.Read(buf[start : start+max])
	if err := r.Err(); err != nil {
		if isPermanentNetError(err) {
			s.dropClient(conn)
			return n, ReadOutcomeRemoteClosed, err
		}
		return n, ReadOutcomeNone, nil
	}
	return n, ReadOutcomeNone, nil
}

func (s *TCPServer) InnerHandleWrite(buf []byte, start, count int) (int, WriteOutcome, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return 0, WriteOutcomeWouldBlock, ErrNotConnected
	}

	n, err := conn.Write(buf[start : start+count])
	if err != nil {
		if isPermanentNetError(err) {
			s.dropClient(conn)
		}
		return n, WriteOutcomeNone, err
	}
	return n, WriteOutcomeNone, nil
}

// dropClient clears the data socket only if it is still the one passed in
// (the accept loop may have already replaced it with a newer client).
func (s *TCPServer) dropClient(conn net.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		s.reader = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *TCPServer) InnerIsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// PollFd implements Pollable, reporting the currently-accepted client's
// descriptor (ok=false when no client is accepted, or it is TLS-wrapped).
func (s *TCPServer) PollFd() (int, bool) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return 0, false
	}
	return fdFromConn(conn)
}

var _ Carrier = (*TCPServer)(nil)
var _ Pollable = (*TCPServer)(nil)
