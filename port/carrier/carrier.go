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

import "errors"

// ReadOutcome tags what InnerHandleRead observed beyond the byte count.
type ReadOutcome uint8

const (
	// ReadOutcomeNone means no remote-end signal worth reporting; didCount
	// bytes (possibly zero) were copied.
	ReadOutcomeNone ReadOutcome = iota
	// ReadOutcomeRemoteClosed means the peer has closed its write side (or
	// the whole connection); no more bytes will ever arrive.
	ReadOutcomeRemoteClosed
)

// WriteOutcome tags what InnerHandleWrite observed beyond the byte count.
type WriteOutcome uint8

const (
	// WriteOutcomeNone means didCount bytes were accepted, possibly fewer
	// than requested; the caller should retry the remainder later.
	WriteOutcomeNone WriteOutcome = iota
	// WriteOutcomeWouldBlock means zero bytes were accepted because the
	// carrier currently has no write space.
	WriteOutcomeWouldBlock
)

var (
	// ErrNotConnected is returned by operations that require an established
	// connection when none is current.
	ErrNotConnected = errors.New("carrier: not connected")
	// ErrAlreadyConnected is returned by InnerGoOnline when called on a
	// carrier that is already online.
	ErrAlreadyConnected = errors.New("carrier: already connected")
	// ErrUnsupportedPlatform is returned by carriers whose OS primitive
	// (e.g. UART termios) is unavailable on the current GOOS.
	ErrUnsupportedPlatform = errors.New("carrier: unsupported on this platform")
)

// Carrier is the narrow "inner" contract a concrete transport implements;
// the port base (C3) is its only caller and drives it from a single worker
// goroutine, so implementations need no internal locking against concurrent
// callers — only against their own background I/O goroutines, if any.
type Carrier interface {
	// InnerGoOnline establishes (or begins establishing) the connection.
	// name is the owning port's name, used for logging. andInitialize asks
	// the carrier to also run any one-time device initialization (e.g. the
	// UART carrier applies its termios settings only when this is true).
	InnerGoOnline(name string, andInitialize bool) error

	// InnerGoOffline tears down the connection. Idempotent: calling it on
	// an already-offline carrier is not an error.
	InnerGoOffline(name string) error

	// InnerReadBytesAvailable estimates how many bytes a read would return
	// right now, without blocking. Returning 1 when the true count is
	// unknown is legal and forces the base to attempt a read anyway.
	InnerReadBytesAvailable() int

	// InnerWriteSpaceAvailable estimates how many bytes could be written
	// right now without blocking.
	InnerWriteSpaceAvailable() int

	// InnerIsAnyWriteSpaceAvailable is a cheap boolean form of the above,
	// used by the base to decide whether a write service pass is worth
	// attempting at all.
	InnerIsAnyWriteSpaceAvailable() bool

	// InnerHandleRead copies up to max bytes into buf starting at start.
	InnerHandleRead(buf []byte, start, max int) (didCount int, outcome ReadOutcome, err error)

	// InnerHandleWrite copies up to count bytes from buf starting at
	// start out to the carrier.
	InnerHandleWrite(buf []byte, start, count int) (didCount int, outcome WriteOutcome, err error)

	// InnerIsConnected reports the carrier's own view of connectedness,
	// independent of the port's published connState.
	InnerIsConnected() bool
}
