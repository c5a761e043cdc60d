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

package mux

import "sync"

// entry is one row of the registration table.
type entry struct {
	id        Registration
	socket    int
	wantRead  bool
	wantWrite bool
	wantError bool
	notifier  Notifier
	touched   bool
}

// table is the registration table guarded by its own mutex. rebuild is set
// whenever the live entry set changes or the poll primitive faulted, and
// tells the service loop to take a fresh, consistent snapshot before the
// next poll.
type table struct {
	mu      sync.Mutex
	nextID  Registration
	entries map[Registration]*entry
	rebuild bool
	wake    chan struct{}
}

func newTable() *table {
	return &table{
		entries: make(map[Registration]*entry),
		wake:    make(chan struct{}, 1),
	}
}

func (t *table) add(e *entry) Registration {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	e.id = t.nextID
	t.entries[e.id] = e
	t.rebuild = true
	t.notifyWake()
	return e.id
}

func (t *table) remove(reg Registration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[reg]; !ok {
		return
	}
	delete(t.entries, reg)
	t.rebuild = true
	t.notifyWake()
}

// notifyWake pokes the idle-wait select without blocking; it is a no-op if
// a wake is already pending.
func (t *table) notifyWake() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// snapshot returns a stable, independently-iterable copy of every live
// entry and clears the rebuild flag. Called only from the service loop.
func (t *table) snapshot() []*entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rebuild = false
	out := make([]*entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

func (t *table) needsRebuild() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rebuild
}

func (t *table) setRebuild() {
	t.mu.Lock()
	t.rebuild = true
	t.mu.Unlock()
}

func (t *table) isEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries) == 0
}
