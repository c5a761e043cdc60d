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

package notify

import (
	"context"
	"sync"
	"time"
)

// Notifier is a level-triggered wake-up signal. Every call to Notify wakes
// every goroutine currently blocked in Wait, and any call to Wait that
// starts after a Notify call but before the next one returns immediately.
//
// Unlike a plain channel close, a Notifier can be notified any number of
// times: each Notify swaps in a fresh channel and closes the old one, so the
// broadcast-via-close trick can be reused indefinitely.
type Notifier struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewNotifier returns a ready-to-use Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{})}
}

// Notify wakes every goroutine currently parked in Wait.
func (n *Notifier) Notify() {
	n.mu.Lock()
	old := n.ch
	n.ch = make(chan struct{})
	n.mu.Unlock()

	close(old)
}

// Wait blocks until the next Notify call, ctx is cancelled, or timeout
// elapses (a timeout of zero or less waits with no timeout). It reports
// whether it returned because of a Notify (true) or because ctx was
// cancelled or the timeout expired (false).
func (n *Notifier) Wait(ctx context.Context, timeout time.Duration) bool {
	n.mu.Lock()
	ch := n.ch
	n.mu.Unlock()

	if timeout <= 0 {
		select {
		case <-ch:
			return true
		case <-ctx.Done():
			return false
		}
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ch:
		return true
	case <-ctx.Done():
		return false
	case <-t.C:
		return false
	}
}
