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

// Publisher holds the single current value of type T plus a monotonic
// sequence number, and fans out every Publish call to any subscriber that
// is keeping up. A slow subscriber never blocks Publish: its channel is
// buffered for exactly one pending value and a publish that finds it full
// is dropped for that subscriber, which always sees the current value via
// Current instead.
type Publisher[T any] struct {
	mu   sync.RWMutex
	val  T
	seq  uint64
	subs []chan T
}

// NewPublisher returns a Publisher seeded with the given initial value.
func NewPublisher[T any](initial T) *Publisher[T] {
	return &Publisher[T]{val: initial}
}

// Publish sets the current value, increments the sequence number, and
// offers the new value to every live subscriber.
func (p *Publisher[T]) Publish(v T) {
	p.mu.Lock()
	p.val = v
	p.seq++
	subs := p.subs
	p.mu.Unlock()

	for _, s := range subs {
		select {
		case s <- v:
		default:
		}
	}
}

// Current returns the most recently published value and its sequence
// number.
func (p *Publisher[T]) Current() (T, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.val, p.seq
}

// Subscribe returns a channel that receives every value published after
// this call, best-effort (see Publisher's buffering note). The channel is
// never closed; callers that stop caring simply stop reading from it.
func (p *Publisher[T]) Subscribe() <-chan T {
	ch := make(chan T, 1)

	p.mu.Lock()
	p.subs = append(p.subs, ch)
	p.mu.Unlock()

	return ch
}
