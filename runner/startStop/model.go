/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package startStop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type runner struct {
	mu     sync.Mutex
	start  FuncStart
	stop   FuncStop
	cancel context.CancelFunc
	done   chan struct{}

	running atomic.Bool
	startAt atomic.Int64

	errMx sync.Mutex
	errs  []error
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked(ctx)

	r.errMx.Lock()
	r.errs = nil
	r.errMx.Unlock()

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.running.Store(true)
	r.startAt.Store(time.Now().UnixNano())

	fn := r.start

	go func() {
		defer close(done)
		defer r.startAt.Store(0)
		defer r.running.Store(false)

		if fn == nil {
			r.recordError(ErrorInvalidStartFunc.Error())
			return
		}

		if err := fn(runCtx); err != nil {
			r.recordError(err)
		}
	}()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked(ctx)
	return nil
}

// stopLocked must be called with mu held. It is a no-op when not running.
func (r *runner) stopLocked(ctx context.Context) {
	if !r.running.Load() {
		return
	}

	if r.cancel != nil {
		r.cancel()
	}

	if r.done != nil {
		<-r.done
	}

	fn := r.stop
	if fn == nil {
		r.recordError(ErrorInvalidStopFunc.Error())
		return
	}

	if err := fn(ctx); err != nil {
		r.recordError(err)
	}
}

func (r *runner) Restart(ctx context.Context) error {
	r.mu.Lock()
	r.stopLocked(ctx)
	r.mu.Unlock()

	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	return r.running.Load()
}

func (r *runner) Uptime() time.Duration {
	if !r.running.Load() {
		return 0
	}

	at := r.startAt.Load()
	if at == 0 {
		return 0
	}

	return time.Since(time.Unix(0, at))
}

func (r *runner) recordError(err error) {
	r.errMx.Lock()
	defer r.errMx.Unlock()

	r.errs = append(r.errs, err)
}

func (r *runner) ErrorsLast() error {
	r.errMx.Lock()
	defer r.errMx.Unlock()

	if len(r.errs) == 0 {
		return nil
	}

	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.errMx.Lock()
	defer r.errMx.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)

	return out
}
