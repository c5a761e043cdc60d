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
	"time"
)

// FuncStart is run on its own goroutine once Start is called. It should
// block for the lifetime of the task and return when its context argument
// is cancelled.
type FuncStart func(ctx context.Context) error

// FuncStop is run synchronously by Stop, after the start goroutine has
// returned.
type FuncStop func(ctx context.Context) error

// StartStop is a restartable background task built from a start/stop
// function pair. Every port worker (C3), the select multiplexer (C2) and
// the annunciator manager (C6) are instances of this runner: a single
// managed goroutine with published running/uptime/error state.
type StartStop interface {
	// Start stops any instance currently running, then launches a fresh one
	// on its own goroutine. Start itself never blocks on the task; it
	// returns once the goroutine has been launched.
	Start(ctx context.Context) error

	// Stop cancels the running instance's context, waits for its goroutine
	// to return, then calls the stop function. Safe to call when not
	// running.
	Stop(ctx context.Context) error

	// Restart is Stop followed by Start.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start goroutine is currently active.
	IsRunning() bool

	// Uptime is the duration since the current instance started, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently captured error from either
	// function, or nil.
	ErrorsLast() error

	// ErrorsList returns every error captured since the last Start call.
	ErrorsList() []error
}

// New builds a StartStop runner around the given functions. Either may be
// nil; calling the corresponding lifecycle method then captures an
// "invalid start/stop function" error instead of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		start: start,
		stop:  stop,
	}
}
