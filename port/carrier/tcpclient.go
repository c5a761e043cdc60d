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
	"time"

	sckcfg "github.com/mosaicsys/serialio/socket/config"
)

const defaultDialTimeout = 10 * time.Second

// TCPClient dials out to a remote TCP endpoint. Connect is asynchronous:
// InnerGoOnline kicks off the dial in a goroutine and returns immediately;
// InnerIsConnected reports false (and InnerGoOnline's caller sees no error
// yet) until the dial completes. A permanent socket error surfaced through
// InnerHandleRead/InnerHandleWrite closes the connection so the port base
// observes InnerIsConnected()==false and transitions to ConnectionFailed.
type TCPClient struct {
	cfg sckcfg.Client

	mu      sync.Mutex
	conn    net.Conn
	reader  *asyncReader
	dialErr error
	dialing bool
}

// NewTCPClient builds a TCPClient from a validated dial configuration.
func NewTCPClient(cfg sckcfg.Client) *TCPClient {
	return &TCPClient{cfg: cfg}
}

func (c *TCPClient) InnerGoOnline(_ string, _ bool) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.conn != nil || c.dialing {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.dialing = true
	c.dialErr = nil
	c.mu.Unlock()

	go c.dial()
	return nil
}

func (c *TCPClient) dial() {
	d := net.Dialer{Timeout: defaultDialTimeout}
	conn, err := d.Dial(c.cfg.Network.String(), c.cfg.Address)
	if err != nil {
		c.mu.Lock()
		c.dialing = false
		c.dialErr = err
		c.mu.Unlock()
		return
	}

	if ok, tlsCfg, serverName := c.cfg.GetTLS(); ok {
		cloned := tlsCfg.Clone()
		if cloned.ServerName == "" {
			cloned.ServerName = serverName
		}
		conn = tls.Client(conn, cloned)
	}

	c.mu.Lock()
	c.conn = conn
	c.reader = newAsyncReader(conn.Read)
	c.dialing = false
	c.mu.Unlock()
}

func (c *TCPClient) InnerGoOffline(_ string) error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.reader = nil
	c.dialing = false
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *TCPClient) InnerReadBytesAvailable() int {
	c.mu.Lock()
	r := c.reader
	c.mu.Unlock()
	if r == nil {
		return 0
	}
	return r.Available()
}

func (c *TCPClient) InnerWriteSpaceAvailable() int {
	if c.InnerIsConnected() {
		return 4096
	}
	return 0
}

func (c *TCPClient) InnerIsAnyWriteSpaceAvailable() bool {
	return c.InnerIsConnected()
}

func (c *TCPClient) InnerHandleRead(buf []byte, start, max int) (int, ReadOutcome, error) {
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

func (c *TCPClient) InnerHandleWrite(buf []byte, start, count int) (int, WriteOutcome, error) {
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

func (c *TCPClient) InnerIsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// PollFd implements Pollable. It reports ok=false while the dial is still
// in flight or the connection is TLS-wrapped.
func (c *TCPClient) PollFd() (int, bool) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return 0, false
	}
	return fdFromConn(conn)
}

var _ Carrier = (*TCPClient)(nil)
var _ Pollable = (*TCPClient)(nil)
