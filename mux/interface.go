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

import (
	"errors"

	libatm "github.com/mosaicsys/serialio/atomic"
	liblog "github.com/mosaicsys/serialio/logger"
	librun "github.com/mosaicsys/serialio/runner/startStop"
)

// ErrClosedSocket is returned by Register when the given file descriptor is
// not a usable handle (negative, or already failing a readiness check at
// registration time).
var ErrClosedSocket = errors.New("mux: socket has no valid handle")

// ErrUnknownRegistration is returned by Deregister when the given
// Registration does not (or no longer) identifies a live entry. Deregister
// is idempotent, so callers are never required to check this error.
var ErrUnknownRegistration = errors.New("mux: unknown registration")

// Notifier is invoked, at most once per service-loop pass, for a
// registration whose descriptor became ready in a direction it asked for.
// readable/writable/excepted report which of wantRead/wantWrite/wantError
// fired.
type Notifier func(readable, writable, excepted bool)

// Registration identifies one entry in the multiplexer's table. The zero
// value is never valid.
type Registration uint64

// Multiplexer is the C2 select multiplexer: a restartable worker that polls
// a table of registered descriptors and fans out readiness notifications.
type Multiplexer interface {
	librun.StartStop

	// Register adds socket to the poll set with the given interest
	// directions and notifier. socket must already be connected or bound
	// and hold a valid OS handle; otherwise Register returns
	// ErrClosedSocket and logs a warning, without adding an entry.
	//
	// Register is safe to call concurrently with Start/Stop and with the
	// running service loop; the table is rebuilt before the next poll.
	Register(socket int, wantRead, wantWrite, wantError bool, notifier Notifier) (Registration, error)

	// Deregister removes a prior registration. It is idempotent: removing
	// an already-removed or unknown Registration is a silent no-op.
	Deregister(reg Registration)

	// SetLogger installs the function used to obtain a logger for the
	// warning/debug messages this package emits. A nil function (the
	// default) makes logging a no-op.
	SetLogger(fct liblog.FuncLog)
}

// New builds a Multiplexer. The loop's internal timings (10ms idle wait,
// 100ms poll budget, 10ms post-notify guard, 20ms exception backoff) are
// fixed per the service-loop contract and are not configurable.
func New() Multiplexer {
	m := &multiplexer{
		tbl: newTable(),
		log: libatm.NewValue[liblog.FuncLog](),
	}
	m.runner = librun.New(m.run, m.shutdown)
	return m
}
