/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package buffer

import "time"

// Config parameterizes a Buffer. Scanner may be nil, in which case the
// buffer never frames packets on its own (Service only handles idle-timeout
// flushing of whatever Reset/Flush leaves behind).
type Config struct {
	Size              int
	Scanner           EndScanner
	TrimWhitespace    bool
	DiscardWhitespace bool
	IdleTimeout       time.Duration
}

// Buffer is the sliding packet buffer described by the port subsystem's
// framing contract. It is not safe for concurrent use; callers must give it
// to exactly one goroutine.
type Buffer interface {
	// GetPutAccess returns the backing array, the index at which the caller
	// may start writing, and how many bytes of space are available there. It
	// may compact the held region first if the tail does not have
	// desiredSpace bytes free.
	GetPutAccess(desiredSpace int) (buf []byte, nextPutIdx int, space int)

	// AddedN tells the buffer that n bytes were written at the index
	// returned by the most recent GetPutAccess, then runs a scan pass.
	AddedN(n int)

	// Service runs the scanning loop described in the package docs. Passing
	// forceFullRescan re-examines the entire held region even if nothing new
	// arrived since the last scan.
	Service(forceFullRescan bool)

	// GetNextPacket pops the oldest framed packet, if any.
	GetNextPacket() (Packet, bool)

	// ReadRaw copies up to len(p) bytes from the front of the currently held,
	// not-yet-framed region directly into p, advancing past them as if they
	// had been framed. It lets a caller consume the same sliding window as a
	// byte stream instead of through GetNextPacket; mixing both withdrawal
	// styles against one buffer only makes sense when the caller itself
	// knows which bytes it wants to claim before the scanner would frame
	// them into a packet.
	ReadRaw(p []byte) int

	// Reset discards the held region and any framed-but-unread packets.
	Reset()

	// Flush discards the held region and any framed-but-unread packets.
	Flush()
}

// New builds a Buffer from cfg. Size must be positive.
func New(cfg Config) Buffer {
	size := cfg.Size
	if size <= 0 {
		size = 1
	}

	return &buffer{
		data:        make([]byte, size),
		scanner:     cfg.Scanner,
		trim:        cfg.TrimWhitespace,
		discardWS:   cfg.DiscardWhitespace,
		idleTimeout: cfg.IdleTimeout,
	}
}
