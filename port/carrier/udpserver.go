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
	"net"
	"sync"
	"sync/atomic"

	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

// PeerReporter is implemented by carriers whose notion of "the connected
// peer" can change without ever going through a disconnect/reconnect
// cycle. UDPServer latches the first sender it observes as its peer and
// re-latches whenever a different sender shows up; PeerGeneration lets the
// port base detect that switch (and republish Connected with a new reason)
// even though InnerIsConnected never flips false in between.
type PeerReporter interface {
	PeerGeneration() uint64
}

// UDPServer binds a local endpoint and accepts datagrams from any sender.
// The first sender observed becomes the latched peer; InnerIsConnected
// only becomes true once a datagram has arrived. A datagram from a
// different sender replaces the latched peer and bumps PeerGeneration,
// but writes always go to whichever address is currently latched.
type UDPServer struct {
	cfg sckcfg.Server

	mu         sync.Mutex
	conn       *net.UDPConn
	peer       *net.UDPAddr
	reader     *asyncReader
	generation atomic.Uint64
}

// NewUDPServer builds a UDPServer from a validated listen configuration.
func NewUDPServer(cfg sckcfg.Server) *UDPServer {
	return &UDPServer{cfg: cfg}
}

func (s *UDPServer) InnerGoOnline(_ string, _ bool) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.mu.Unlock()

	laddr, err := net.ResolveUDPAddr(s.cfg.Network.String(), s.cfg.Address)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP(s.cfg.Network.String(), laddr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.peer = nil
	s.reader = newAsyncReader(func(buf []byte) (int, error) {
		n, from, rerr := conn.ReadFromUDP(buf)
		if n > 0 {
			s.notePeer(from)
		}
		return n, rerr
	})
	s.mu.Unlock()
	return nil
}

func (s *UDPServer) notePeer(from *net.UDPAddr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.peer == nil || s.peer.String() != from.String() {
		s.peer = from
		s.generation.Add(1)
	}
}

// PeerGeneration implements PeerReporter.
func (s *UDPServer) PeerGeneration() uint64 {
	return s.generation.Load()
}

func (s *UDPServer) InnerGoOffline(_ string) error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.peer = nil
	s.reader = nil
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (s *UDPServer) InnerReadBytesAvailable() int {
	s.mu.Lock()
	r := s.reader
	s.mu.Unlock()
	if r == nil {
		return 0
	}
	return r.Available()
}

func (s *UDPServer) InnerWriteSpaceAvailable() int {
	if s.InnerIsConnected() {
		return 65507
	}
	return 0
}

func (s *UDPServer) InnerIsAnyWriteSpaceAvailable() bool {
	return s.InnerIsConnected()
}

func (s *UDPServer) InnerHandleRead(buf []byte, start, max int) (int, ReadOutcome, error) {
	s.mu.Lock()
	r := s.reader
	s.mu.Unlock()
	if r == nil {
		return 0, ReadOutcomeNone, ErrNotConnected
	}

	n := r.Read(buf[start : start+max])
	if err := r.Err(); err != nil {
		if isPermanentNetError(err) {
			return n, ReadOutcomeRemoteClosed, err
		}
		return n, ReadOutcomeNone, nil
	}
	return n, ReadOutcomeNone, nil
}

func (s *UDPServer) InnerHandleWrite(buf []byte, start, count int) (int, WriteOutcome, error) {
	s.mu.Lock()
	conn := s.conn
	peer := s.peer
	s.mu.Unlock()
	if conn == nil || peer == nil {
		return 0, WriteOutcomeWouldBlock, ErrNotConnected
	}

	n, err := conn.WriteToUDP(buf[start:start+count], peer)
	if err != nil {
		return n, WriteOutcomeNone, err
	}
	return n, WriteOutcomeNone, nil
}

func (s *UDPServer) InnerIsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.peer != nil
}

// PollFd implements Pollable. The socket is registrable as soon as it is
// bound, even before any sender has latched as peer.
func (s *UDPServer) PollFd() (int, bool) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return 0, false
	}
	return fdFromConn(conn)
}

var _ Carrier = (*UDPServer)(nil)
var _ PeerReporter = (*UDPServer)(nil)
var _ Pollable = (*UDPServer)(nil)
