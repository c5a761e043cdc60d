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
	"errors"
	"time"

	"github.com/mosaicsys/serialio/port/carrier"
)

// run is the worker's FuncStart. It owns every mutable field on portImpl
// except the action submission channel and the wake notifier (both are
// safe for concurrent use by design) and runs one pass of the five-step
// loop described in the package docs each time it wakes, until ctx ends.
func (p *portImpl) run(ctx context.Context) error {
	defer p.deregisterPoll()

	for {
		p.drainSubmissions()
		p.serviceConnection(ctx)
		p.serviceWrites()
		p.serviceReads()

		if ctx.Err() != nil {
			return nil
		}

		p.registerPoll()

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		p.wake.Wait(ctx, p.cfg.SpinWaitLimit)
	}
}

// shutdown is the worker's FuncStop: it cancels every still-pending read
// and write and tears the carrier down.
func (p *portImpl) shutdown(ctx context.Context) error {
	p.failPending(&p.pendingReads, ErrorReadCanceled.Error())
	p.failPending(&p.pendingWrites, ErrorWriteCanceled.Error())

	err := p.carrier.InnerGoOffline(p.cfg.Name)
	p.publish(State{
		UseState:  UseStateOffline,
		ConnState: ConnStateDisconnected,
		Timestamp: time.Now(),
		Reason:    "stopped",
	})
	return err
}

// drainSubmissions moves every action waiting on the submission channel
// onto the worker's own state: GoOnline/GoOffline/Flush/GetNextPacket are
// serviced immediately, Read/Write are appended to their pending FIFOs.
func (p *portImpl) drainSubmissions() {
	for {
		select {
		case a := <-p.actions:
			p.handleSubmission(a)
		default:
			return
		}
	}
}

func (p *portImpl) handleSubmission(a *action) {
	switch a.kind {
	case actionGoOnline:
		a.err = p.doGoOnline(a.initialize)
		a.complete()

	case actionGoOffline:
		a.err = p.doGoOffline()
		a.complete()

	case actionFlush:
		p.buf.Flush()
		p.failPending(&p.pendingReads, ErrorReadCanceled.Error())
		p.failPending(&p.pendingWrites, ErrorWriteCanceled.Error())
		a.complete()

	case actionGetNextPacket:
		a.packet, a.packetOk = p.buf.GetNextPacket()
		if a.packetOk {
			p.framedPackets.Add(1)
			if p.metrics != nil {
				p.metrics.IncFramed(p.cfg.Name, 1)
			}
		}
		a.complete()

	case actionRead:
		if a.isCanceled() {
			a.read.ActionResult = ActionCanceled
			a.complete()
			return
		}
		p.pendingReads = append(p.pendingReads, a)

	case actionWrite:
		if a.isCanceled() {
			a.write.ActionResult = ActionCanceled
			a.complete()
			return
		}
		p.pendingWrites = append(p.pendingWrites, a)
	}
}

func (p *portImpl) doGoOnline(initialize bool) error {
	if p.state.UseState == UseStateOnline {
		return nil
	}

	p.publish(State{
		UseState:  UseStateAttemptOnline,
		ConnState: ConnStateConnecting,
		Timestamp: time.Now(),
		Reason:    "GoOnline requested",
	})
	p.lastConnectAttempt = time.Now()

	err := p.carrier.InnerGoOnline(p.cfg.Name, initialize)
	if err != nil {
		p.publish(State{
			UseState:  UseStateAttemptOnlineFailed,
			ConnState: ConnStateConnectFailed,
			Timestamp: time.Now(),
			Reason:    err.Error(),
		})
		return err
	}

	p.publish(State{
		UseState:  UseStateOnline,
		ConnState: ConnStateWaitingForConnect,
		Timestamp: time.Now(),
		Reason:    "carrier accepted connect",
	})
	return nil
}

func (p *portImpl) doGoOffline() error {
	p.deregisterPoll()
	err := p.carrier.InnerGoOffline(p.cfg.Name)

	p.cancelOutOfConnectedFamily("GoOffline requested")

	p.publish(State{
		UseState:  UseStateOffline,
		ConnState: ConnStateDisconnected,
		Timestamp: time.Now(),
		Reason:    "GoOffline requested",
	})
	return err
}

// serviceConnection advances the connection half of the state machine: it
// notices the carrier reporting connected (WaitingForConnect ->
// Connected), notices the carrier reporting disconnected while the port
// still believes itself online (-> DisconnectedByOtherEnd, cascading
// pending-action cancellation), and drives auto-reconnect.
func (p *portImpl) serviceConnection(ctx context.Context) {
	if p.state.UseState != UseStateOnline {
		return
	}

	connected := p.carrier.InnerIsConnected()

	if connected {
		if p.state.ConnState == ConnStateWaitingForConnect || p.state.ConnState == ConnStateConnecting {
			p.publish(State{
				UseState:  UseStateOnline,
				ConnState: ConnStateConnected,
				Timestamp: time.Now(),
				Reason:    "carrier connected",
			})
		}

		if pr, ok := p.carrier.(carrier.PeerReporter); ok {
			if gen := pr.PeerGeneration(); gen != p.lastPeerGeneration {
				if p.lastPeerGeneration != 0 {
					p.cancelOutOfConnectedFamily("peer changed")
					p.buf.Reset()
				}
				p.lastPeerGeneration = gen
			}
		}
		return
	}

	if p.state.ConnState == ConnStateConnected {
		p.publish(State{
			UseState:  UseStateOnline,
			ConnState: ConnStateDisconnectedByOtherEnd,
			Timestamp: time.Now(),
			Reason:    "remote end closed",
		})
		p.cancelOutOfConnectedFamily("remote end closed")
	}

	if !p.cfg.AutoReconnect {
		return
	}
	if time.Since(p.lastConnectAttempt) < p.cfg.ReconnectHoldoff {
		return
	}

	p.lastConnectAttempt = time.Now()
	p.reconnects.Add(1)
	if p.metrics != nil {
		p.metrics.IncReconnect(p.cfg.Name)
	}
	p.publish(State{
		UseState:  UseStateOnline,
		ConnState: ConnStateConnecting,
		Timestamp: time.Now(),
		Reason:    "auto-reconnect",
	})

	if err := p.carrier.InnerGoOnline(p.cfg.Name, false); err != nil {
		p.publish(State{
			UseState:  UseStateOnline,
			ConnState: ConnStateConnectionFailed,
			Timestamp: time.Now(),
			Reason:    err.Error(),
		})
		return
	}
	p.publish(State{
		UseState:  UseStateOnline,
		ConnState: ConnStateWaitingForConnect,
		Timestamp: time.Now(),
		Reason:    "auto-reconnect accepted",
	})
}

// cancelOutOfConnectedFamily fails every pending read and write with
// ErrorNotOnline — the cancellation cascade triggered by any transition
// that leaves the connected family of ConnState values.
func (p *portImpl) cancelOutOfConnectedFamily(reason string) {
	p.failPending(&p.pendingReads, ErrorNotOnline.Error(errors.New(reason)))
	p.failPending(&p.pendingWrites, ErrorNotOnline.Error(errors.New(reason)))
}

func (p *portImpl) failPending(queue *[]*action, err error) {
	q := *queue
	for _, a := range q {
		switch a.kind {
		case actionRead:
			a.read.ActionResult = ActionFailed
			a.read.ResultCode = err
		case actionWrite:
			a.write.ActionResult = ActionFailed
			a.write.ResultCode = err
		}
		a.complete()
	}
	*queue = (*queue)[:0]
}

func (p *portImpl) serviceWrites() {
	if len(p.pendingWrites) == 0 {
		return
	}
	if p.state.ConnState != ConnStateConnected {
		return
	}

	for len(p.pendingWrites) > 0 {
		a := p.pendingWrites[0]

		if a.isCanceled() {
			a.write.ActionResult = ActionCanceled
			a.complete()
			p.pendingWrites = p.pendingWrites[1:]
			continue
		}

		if !p.carrier.InnerIsAnyWriteSpaceAvailable() {
			return
		}

		w := a.write
		remaining := w.BytesToWrite - w.BytesWritten
		n, outcome, err := p.carrier.InnerHandleWrite(w.Buffer, w.BytesWritten, remaining)
		w.BytesWritten += n
		p.bytesWritten.Add(int64(n))

		if err != nil {
			w.ActionResult = ActionFailed
			w.ResultCode = ErrorWriteFailed.Error(err)
			a.complete()
			p.pendingWrites = p.pendingWrites[1:]
			continue
		}

		if w.BytesWritten >= w.BytesToWrite {
			w.ActionResult = ActionDone
			a.complete()
			p.pendingWrites = p.pendingWrites[1:]
			continue
		}

		if w.IsNonBlocking {
			w.ActionResult = ActionDone
			a.complete()
			p.pendingWrites = p.pendingWrites[1:]
			continue
		}

		if outcome == carrier.WriteOutcomeWouldBlock {
			return
		}
	}
}

func (p *portImpl) serviceReads() {
	p.pullFromCarrier()

	if len(p.pendingReads) == 0 {
		return
	}

	for len(p.pendingReads) > 0 {
		a := p.pendingReads[0]

		if a.isCanceled() {
			a.read.ActionResult = ActionCanceled
			a.complete()
			p.pendingReads = p.pendingReads[1:]
			continue
		}

		r := a.read
		n := p.buf.ReadRaw(r.Buffer[r.BytesRead:r.BytesToRead])
		r.BytesRead += n
		p.bytesRead.Add(int64(n))

		if r.BytesRead >= r.BytesToRead {
			r.ActionResult = ActionDone
			a.complete()
			p.pendingReads = p.pendingReads[1:]
			continue
		}

		if !r.WaitForAllBytes && r.BytesRead > 0 {
			r.ActionResult = ActionDone
			a.complete()
			p.pendingReads = p.pendingReads[1:]
			continue
		}

		if !r.StartTime.IsZero() && p.cfg.ReadTimeout > 0 && time.Since(r.StartTime) >= p.cfg.ReadTimeout {
			r.ActionResult = ActionTimeout
			r.ResultCode = ErrorReadTimeout.Error()
			a.complete()
			p.pendingReads = p.pendingReads[1:]
			continue
		}

		// nothing more currently available; stop for this pass
		return
	}
}

// pullFromCarrier drains whatever the carrier currently has available
// into the framing buffer, running a scan pass over it.
func (p *portImpl) pullFromCarrier() {
	if p.state.ConnState != ConnStateConnected {
		return
	}

	for {
		avail := p.carrier.InnerReadBytesAvailable()
		if avail <= 0 {
			return
		}

		buf, putIdx, space := p.buf.GetPutAccess(avail)
		if space <= 0 {
			return
		}
		if avail > space {
			avail = space
		}

		n, outcome, err := p.carrier.InnerHandleRead(buf, putIdx, avail)
		if n > 0 {
			p.buf.AddedN(n)
		}

		if err != nil || outcome == carrier.ReadOutcomeRemoteClosed {
			return
		}
		if n == 0 {
			return
		}
	}
}

func (p *portImpl) registerPoll() {
	if p.mplex == nil || p.pollRegistered {
		return
	}

	pollable, ok := p.carrier.(carrier.Pollable)
	if !ok {
		return
	}

	fd, ok := pollable.PollFd()
	if !ok {
		return
	}

	reg, err := p.mplex.Register(fd, true, true, true, func(readable, writable, excepted bool) {
		p.wake.Notify()
	})
	if err != nil {
		return
	}

	p.pollReg = reg
	p.pollRegistered = true
}

func (p *portImpl) deregisterPoll() {
	if !p.pollRegistered {
		return
	}
	p.mplex.Deregister(p.pollReg)
	p.pollRegistered = false
}
