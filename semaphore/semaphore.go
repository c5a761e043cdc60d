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

package semaphore

import (
	"context"

	xsem "golang.org/x/sync/semaphore"
)

// Semaphore bounds concurrent workers spawned from a single caller. Worker
// slots are acquired on a try basis so a full semaphore never blocks the
// caller; an optional main slot may additionally be held for the caller's
// own lifetime.
type Semaphore interface {
	// NewWorkerTry attempts to acquire one worker slot without blocking. It
	// reports whether the slot was acquired.
	NewWorkerTry() bool

	// DeferWorker releases one worker slot. Call exactly once per
	// successful NewWorkerTry, typically via defer.
	DeferWorker()

	// DeferMain releases the main slot if New was asked to hold one.
	// Idempotent.
	DeferMain()
}

type sem struct {
	workers *xsem.Weighted
	main    *xsem.Weighted
	ctx     context.Context
}

// New returns a Semaphore allowing up to max concurrent worker slots. When
// holdMain is true, one additional slot is acquired immediately and held
// until DeferMain is called, letting a caller reserve its own execution
// slot out of the same budget as its workers.
func New(ctx context.Context, max int, holdMain bool) Semaphore {
	if max < 1 {
		max = 1
	}

	s := &sem{
		workers: xsem.NewWeighted(int64(max)),
		ctx:     ctx,
	}

	if holdMain {
		s.main = xsem.NewWeighted(1)
		_ = s.main.Acquire(ctx, 1)
	}

	return s
}

func (s *sem) NewWorkerTry() bool {
	return s.workers.TryAcquire(1)
}

func (s *sem) DeferWorker() {
	s.workers.Release(1)
}

func (s *sem) DeferMain() {
	if s.main == nil {
		return
	}
	s.main.Release(1)
	s.main = nil
}
