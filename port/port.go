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
	libmux "github.com/mosaicsys/serialio/mux"
	"github.com/mosaicsys/serialio/notify"
	"github.com/mosaicsys/serialio/port/carrier"
	librun "github.com/mosaicsys/serialio/runner/startStop"
)

// Port is the active-agent port base. Every exposed operation enqueues an
// action for the single worker goroutine and blocks the caller until either
// the worker completes it or the caller's context ends — cancelling the
// context after that point also marks the action canceled so the worker
// stops carrying it.
type Port interface {
	librun.StartStop

	// GoOnline asks the carrier to connect. For carriers that dial
	// asynchronously (TCP/UDP clients, TCP/UDP servers) this completes once
	// the attempt has been accepted, not once the carrier reports connected
	// — watch StatePublisher for the Online/Connected transition.
	GoOnline(ctx context.Context, initialize bool) error

	// GoOffline asks the carrier to disconnect and cancels every pending
	// read and write.
	GoOffline(ctx context.Context) error

	// Read asks for up to len(buf) bytes, or until bytesToRead is satisfied
	// when waitForAllBytes is true. It returns how many bytes were copied
	// into buf and a non-nil error on cancellation, timeout, or disconnect.
	Read(ctx context.Context, buf []byte, bytesToRead int, waitForAllBytes bool) (int, error)

	// Write asks for len(data) bytes to be sent. When nonBlocking is true a
	// partial (possibly zero-byte) write completes immediately instead of
	// waiting for the rest of data to drain.
	Write(ctx context.Context, data []byte, nonBlocking bool) (int, error)

	// Flush discards anything buffered for framing and clears the pending
	// read/write FIFOs, waiting up to timeLimit for in-flight work to settle
	// first (zero waits with no limit).
	Flush(ctx context.Context, timeLimit time.Duration) error

	// GetNextPacket pops the oldest framed packet produced from bytes
	// already read from the carrier, if any.
	GetNextPacket() (libbuf.Packet, bool)

	// State returns the most recently published port state.
	State() State

	// StatePublisher returns the publisher callers can Subscribe to in
	// order to observe every state transition as it happens.
	StatePublisher() *notify.Publisher[State]

	// SetMetrics wires an optional Prometheus surface into this port, or
	// disables it when m is nil.
	SetMetrics(m *Metrics)

	// Snapshot returns a read-only view of this port's published state plus
	// its lifetime counters, for a monitoring endpoint to poll without
	// subscribing to StatePublisher.
	Snapshot() Snapshot
}

type portImpl struct {
	cfg     Config
	carrier carrier.Carrier
	mplex   libmux.Multiplexer
	buf     libbuf.Buffer

	runner  librun.StartStop
	actions chan *action
	wake    *notify.Notifier

	statePub *notify.Publisher[State]
	metrics  *Metrics

	// lifetime counters, safe for concurrent read via Snapshot while the
	// worker goroutine updates them.
	bytesRead     atomic.Int64
	bytesWritten  atomic.Int64
	framedPackets atomic.Int64
	reconnects    atomic.Int64

	// worker-owned; touched only by the run goroutine.
	state              State
	pendingReads       []*action
	pendingWrites      []*action
	pollReg            libmux.Registration
	pollRegistered     bool
	lastConnectAttempt time.Time
	lastPeerGeneration uint64
}

// New builds a Port around car using cfg. mplex is optional (nil disables
// multiplexer-readiness wakeups; the worker then relies solely on
// asyncReader's own background goroutines and its spin-wait timer).
func New(cfg Config, car carrier.Carrier, mplex libmux.Multiplexer) (Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &portImpl{
		cfg:     cfg,
		carrier: car,
		mplex:   mplex,
		buf: libbuf.New(libbuf.Config{
			Size:              cfg.RxBufferSize,
			Scanner:           cfg.scanner(),
			TrimWhitespace:    cfg.TrimWhitespace,
			DiscardWhitespace: cfg.DiscardWhitespace,
			IdleTimeout:       cfg.IdleTimeout,
		}),
		actions: make(chan *action, 256),
		wake:    notify.NewNotifier(),
		state: State{
			UseState:  UseStateInitial,
			ConnState: ConnStateInitial,
			Timestamp: time.Now(),
			Reason:    "constructed",
		},
	}
	p.statePub = notify.NewPublisher(p.state)
	p.runner = librun.New(p.run, p.shutdown)

	return p, nil
}

func (p *portImpl) Start(ctx context.Context) error { return p.runner.Start(ctx) }
func (p *portImpl) Stop(ctx context.Context) error  { return p.runner.Stop(ctx) }
func (p *portImpl) Restart(ctx context.Context) error {
	return p.runner.Restart(ctx)
}
func (p *portImpl) IsRunning() bool       { return p.runner.IsRunning() }
func (p *portImpl) Uptime() time.Duration { return p.runner.Uptime() }
func (p *portImpl) ErrorsLast() error     { return p.runner.ErrorsLast() }
func (p *portImpl) ErrorsList() []error   { return p.runner.ErrorsList() }

func (p *portImpl) State() State { s, _ := p.statePub.Current(); return s }

func (p *portImpl) StatePublisher() *notify.Publisher[State] { return p.statePub }

func (p *portImpl) publish(s State) {
	p.state = s
	p.statePub.Publish(s)
	if p.metrics != nil {
		p.metrics.Observe(p.cfg.Name, s)
	}
}

// SetMetrics wires m as this port's optional Prometheus surface: every
// published state updates m's gauges, every auto-reconnect attempt and every
// packet GetNextPacket hands back bumps m's counters. Passing nil disables
// metrics again.
func (p *portImpl) SetMetrics(m *Metrics) { p.metrics = m }

// submit enqueues a, waking the worker, and blocks until either the worker
// completes it or ctx ends (in which case a is marked canceled so the
// worker abandons it on its next pass).
func (p *portImpl) submit(ctx context.Context, a *action) {
	select {
	case p.actions <- a:
	case <-ctx.Done():
		a.err = ctx.Err()
		return
	}
	p.wake.Notify()

	if !a.Wait(ctx) {
		a.Cancel()
	}
}

func (p *portImpl) GoOnline(ctx context.Context, initialize bool) error {
	a := newAction(actionGoOnline)
	a.initialize = initialize
	p.submit(ctx, a)
	return a.err
}

func (p *portImpl) GoOffline(ctx context.Context) error {
	a := newAction(actionGoOffline)
	p.submit(ctx, a)
	return a.err
}

func (p *portImpl) Read(ctx context.Context, buf []byte, bytesToRead int, waitForAllBytes bool) (int, error) {
	if bytesToRead <= 0 || bytesToRead > len(buf) {
		bytesToRead = len(buf)
	}

	a := newAction(actionRead)
	a.read = &ReadParams{
		Buffer:          buf,
		BytesToRead:     bytesToRead,
		WaitForAllBytes: waitForAllBytes,
		StartTime:       time.Now(),
	}
	p.submit(ctx, a)

	if a.read == nil {
		return 0, a.err
	}
	if a.read.ActionResult == ActionPending {
		return a.read.BytesRead, ctx.Err()
	}
	return a.read.BytesRead, a.read.ResultCode
}

func (p *portImpl) Write(ctx context.Context, data []byte, nonBlocking bool) (int, error) {
	a := newAction(actionWrite)
	a.write = &WriteParams{
		Buffer:        data,
		BytesToWrite:  len(data),
		IsNonBlocking: nonBlocking,
		StartTime:     time.Now(),
	}
	p.submit(ctx, a)

	if a.write.ActionResult == ActionPending {
		return a.write.BytesWritten, ctx.Err()
	}
	return a.write.BytesWritten, a.write.ResultCode
}

func (p *portImpl) Flush(ctx context.Context, timeLimit time.Duration) error {
	a := newAction(actionFlush)
	a.timeLimit = timeLimit
	p.submit(ctx, a)
	return a.err
}

func (p *portImpl) GetNextPacket() (libbuf.Packet, bool) {
	a := newAction(actionGetNextPacket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.submit(ctx, a)
	return a.packet, a.packetOk
}
