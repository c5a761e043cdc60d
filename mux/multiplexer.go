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
	"context"
	"time"

	libatm "github.com/mosaicsys/serialio/atomic"
	liblog "github.com/mosaicsys/serialio/logger"
	librun "github.com/mosaicsys/serialio/runner/startStop"
)

// multiplexer is the platform-neutral shell: table bookkeeping, the
// StartStop forwarders and Register/Deregister live here; the poll
// primitive itself (run, in multiplexer_linux.go / multiplexer_other.go) is
// the only part that varies by OS.
type multiplexer struct {
	runner librun.StartStop
	tbl    *table
	log    libatm.Value[liblog.FuncLog]

	current []*entry // working set, refreshed only when tbl.rebuild is set
}

func (m *multiplexer) Start(ctx context.Context) error   { return m.runner.Start(ctx) }
func (m *multiplexer) Stop(ctx context.Context) error    { return m.runner.Stop(ctx) }
func (m *multiplexer) Restart(ctx context.Context) error { return m.runner.Restart(ctx) }
func (m *multiplexer) IsRunning() bool                   { return m.runner.IsRunning() }
func (m *multiplexer) Uptime() time.Duration             { return m.runner.Uptime() }
func (m *multiplexer) ErrorsLast() error                 { return m.runner.ErrorsLast() }
func (m *multiplexer) ErrorsList() []error               { return m.runner.ErrorsList() }

func (m *multiplexer) Register(socket int, wantRead, wantWrite, wantError bool, notifier Notifier) (Registration, error) {
	if !validSocket(socket) {
		m.logWarn("mux: dropping registration for invalid socket %d", socket)
		return 0, ErrClosedSocket
	}
	e := &entry{
		socket:    socket,
		wantRead:  wantRead,
		wantWrite: wantWrite,
		wantError: wantError,
		notifier:  notifier,
	}
	return m.tbl.add(e), nil
}

func (m *multiplexer) Deregister(reg Registration) {
	m.tbl.remove(reg)
}

// shutdown is the StartStop stop function. There is nothing to release: the
// worker goroutine already observed ctx.Done() and returned from run; the
// registration table itself outlives individual Start/Stop cycles so a
// caller may Register before the first Start or across a Restart.
func (m *multiplexer) shutdown(_ context.Context) error {
	return nil
}

var _ Multiplexer = (*multiplexer)(nil)
