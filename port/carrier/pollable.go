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
	"syscall"
)

// Pollable is implemented by carriers that can hand the port base a raw
// file descriptor to register with a select multiplexer (the mux package),
// so the port's worker can wake on carrier readiness instead of relying
// solely on asyncReader's background goroutine and its own poll timer.
// PollFd returns ok=false whenever no descriptor is currently available to
// register (not yet connected, or the underlying connection doesn't expose
// one — a TLS-wrapped net.Conn, for instance). The port base must treat a
// false return as "fall back to spin-wait timing", never as an error.
type Pollable interface {
	PollFd() (fd int, ok bool)
}

// fdFromConn extracts the raw file descriptor backing c, when c exposes one
// via syscall.Conn. TLS connections and other wrapped conns that don't
// implement syscall.Conn simply report ok=false.
func fdFromConn(c net.Conn) (int, bool) {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return 0, false
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, false
	}

	var fd int
	var ctlErr error
	err = raw.Control(func(ptr uintptr) {
		fd = int(ptr)
	})
	if err != nil || ctlErr != nil {
		return 0, false
	}
	return fd, true
}
