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

package port

import (
	"context"
	"sync/atomic"
	"time"

	libbuf "github.com/mosaicsys/serialio/buffer"
)

// actionKind tags what an action submitted to the worker's FIFO asks it to
// do. GoOnline/GoOffline/Flush/GetNextPacket are serviced the pass they are
// drained; Read/Write are moved onto their own pending FIFOs and may span
// many passes.
type actionKind uint8

const (
	actionGoOnline actionKind = iota
	actionGoOffline
	actionRead
	actionWrite
	actionFlush
	actionGetNextPacket
)

// action is one request moving through the worker's queue. The submitting
// goroutine owns it before submission and after done is closed; the worker
// owns it in between. cancel (via Cancel) only ever sets a flag the worker
// checks — the canceling goroutine never touches action state directly.
type action struct {
	kind actionKind
	done chan struct{}
	canceled atomic.Bool

	initialize bool // GoOnline

	read  *ReadParams  // Read
	write *WriteParams // Write

	timeLimit time.Duration // Flush

	packet   libbuf.Packet // GetNextPacket result
	packetOk bool

	err error // GoOnline/GoOffline/Flush result
}

func newAction(kind actionKind) *action {
	return &action{kind: kind, done: make(chan struct{})}
}

// Cancel marks the action for cancellation. The worker observes this on its
// next pass and, for a still-pending read or write, completes it with
// ActionCanceled instead of continuing to service it.
func (a *action) Cancel() {
	a.canceled.Store(true)
}

func (a *action) isCanceled() bool {
	return a.canceled.Load()
}

// complete is called exactly once by the worker to hand the action back to
// its submitter.
func (a *action) complete() {
	close(a.done)
}

// Wait blocks until the worker completes the action or ctx is done. It
// reports whether the action completed (as opposed to the wait being
// abandoned because ctx ended first — the action itself is still in flight
// in that case and the caller should Cancel it to avoid a leak).
func (a *action) Wait(ctx context.Context) bool {
	select {
	case <-a.done:
		return true
	case <-ctx.Done():
		return false
	}
}
