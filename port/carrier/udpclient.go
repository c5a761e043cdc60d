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

	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

// UDPClient talks datagram semantics to a single fixed peer. It dials with
// net.DialUDP, which connects the local socket's kernel filter to that
// peer's address: datagrams arriving from anyone else are silently
// discarded by the OS before Read ever sees them, which is exactly the
// "zero bytes from the expected peer, retry" behavior asked of this
// carrier — here it falls out of using a connected UDP socket rather than
// needing to be implemented by hand.
type UDPClient struct {
	cfg sckcfg.Client

	mu     sync.Mutex
	conn   *net.UDPConn
	reader *asyncReader
}

// NewUDPClient builds a UDPClient from a validated dial configuration.
func NewUDPClient(cfg sckcfg.Client) *UDPClient {
	return &UDPClient{cfg: cfg}
}

func (c *UDPClient) InnerGoOnline(_ string, _ bool) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	raddr, err := net.ResolveUDPAddr(c.cfg.Network.String(), c.cfg.Address)
	if err != nil {
		return err
	}
	conn, err := net.DialUDP(c.cfg.Network.String(), nil, raddr)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.reader = newAsyncReader(conn.Read)
	c.mu.Unlock()
	return nil
}

func (c *UDPClient) InnerGoOffline(_ string) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.reader = nil
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *UDPClient) InnerReadBytesAvailable() int {
	c.mu.Lock()
	r := c.reader
	c.mu.Unlock()
	if r == nil {
		return 0
	}
	return r.Available()
}

func (c *UDPClient) InnerWriteSpaceAvailable() int {
	if c.InnerIsConnected() {
		return 65507
	}
	return 0
}

func (c *UDPClient) InnerIsAnyWriteSpaceAvailable() bool {
	return c.InnerIsConnected()
}

func (c *UDPClient) InnerHandleRead(buf []byte, start, max int) (int, ReadOutcome, error) {
	c.mu.Lock()
	r := c.reader
	c.mu.Unlock()
	if r == nil {
		return 0, ReadOutcomeNone, ErrNotConnected
	}

	n := r.Read(buf[start : start+max])
	if err := r.Err(); err != nil {
		if isPermanentNetError(err) {
			_ = c.InnerGoOffline("")
			return n, ReadOutcomeRemoteClosed, err
		}
		return n, ReadOutcomeNone, nil
	}
	return n, ReadOutcomeNone, nil
}

func (c *UDPClient) InnerHandleWrite(buf []byte, start, count int) (int, WriteOutcome, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, WriteOutcomeWouldBlock, ErrNotConnected
	}

	n, err := conn.Write(buf[start : start+count])
	if err != nil {
		if isPermanentNetError(err) {
			_ = c.InnerGoOffline("")
		}
		return n, WriteOutcomeNone, err
	}
	return n, WriteOutcomeNone, nil
}

func (c *UDPClient) InnerIsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// PollFd implements Pollable.
func (c *UDPClient) PollFd() (int, bool) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, false
	}
	return fdFromConn(conn)
}

var _ Carrier = (*UDPClient)(nil)
var _ Pollable = (*UDPClient)(nil)
