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

import "sync"

// asyncReader adapts a blocking Read(buf []byte) (int, error) function (as
// exposed by net.Conn, net.PacketConn-via-wrapper, or a UART file) to the
// Carrier contract's non-blocking InnerReadBytesAvailable/InnerHandleRead
// pair. One goroutine blocks in the underlying Read call and feeds chunks
// into a buffered channel; InnerReadBytesAvailable/InnerHandleRead never
// block, they only drain whatever has already arrived.
type asyncReader struct {
	ch chan readResult

	mu      sync.Mutex
	pending []byte
	err     error
}

type readResult struct {
	data []byte
	err  error
}

func newAsyncReader(read func([]byte) (int, error)) *asyncReader {
	r := &asyncReader{ch: make(chan readResult, 64)}
	go r.loop(read)
	return r
}

func (r *asyncReader) loop(read func([]byte) (int, error)) {
	buf := make([]byte, 4096)
	for {
		n, err := read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			r.ch <- readResult{data: cp}
		}
		if err != nil {
			r.ch <- readResult{err: err}
			return
		}
	}
}

// drain pulls every chunk currently buffered in the channel into pending
// without blocking.
func (r *asyncReader) drain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		select {
		case res, ok := <-r.ch:
			if !ok {
				return
			}
			if res.err != nil {
				r.err = res.err
				return
			}
			r.pending = append(r.pending, res.data...)
		default:
			return
		}
	}
}

// Available returns how many bytes are currently buffered and ready to
// read without blocking.
func (r *asyncReader) Available() int {
	r.drain()
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Err returns the terminal error the background reader observed, if any.
// Once set it never clears; the reader is done.
func (r *asyncReader) Err() error {
	r.drain()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Read copies buffered bytes into buf, returning how many were copied.
func (r *asyncReader) Read(buf []byte) int {
	r.drain()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := copy(buf, r.pending)
	r.pending = r.pending[n:]
	return n
}
