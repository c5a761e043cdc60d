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

import "sync"

// List is a thread-safe collection of observer callbacks, used by a
// selectable source to let a caller register interest and later walk away
// cleanly via the cancel function Add returns.
type List struct {
	mu   sync.Mutex
	obs  map[int]func()
	next int
}

// NewList returns an empty, ready-to-use List.
func NewList() *List {
	return &List{obs: make(map[int]func())}
}

// Add registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (l *List) Add(fn func()) (cancel func()) {
	l.mu.Lock()
	id := l.next
	l.next++
	l.obs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.obs, id)
		l.mu.Unlock()
	}
}

// Fire calls every currently registered observer, in no particular order.
// Observers registered or removed by another goroutine during Fire may or
// may not be included in this pass.
func (l *List) Fire() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.obs))
	for _, fn := range l.obs {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of currently registered observers.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.obs)
}
