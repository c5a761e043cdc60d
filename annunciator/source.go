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

package annunciator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mosaicsys/serialio/notify"
)

// source is the signal-state machine shared by every facet. Every
// exported method on Occurrence/Condition/Generic forwards to one of the
// unexported methods below, each of which takes the lock, mutates state,
// and publishes — to the source's own publisher and to the owning
// manager's intake queue — before releasing it.
type source struct {
	mu    sync.Mutex
	spec  Spec
	state State
	seq   uint64

	reasonHoldOff    time.Duration
	lastReasonChange time.Time

	pub    *notify.Publisher[State]
	selObs *notify.List

	mgr *Manager
}

func newSource(mgr *Manager, spec Spec, pub *notify.Publisher[State]) *source {
	now := time.Now()
	st := State{
		Spec:        spec,
		SignalState: Off,
		SeqAndTime:  SeqAndTime{MonotonicTime: now, WallClockTime: now},
		AlarmID:     spec.AlarmID,
	}
	if spec.AlarmID == AlarmIDLookup || spec.AlarmID == AlarmIDOptionalLookup {
		st.LookupStatus = LookupPending
	}

	if pub == nil {
		pub = notify.NewPublisher(st)
	}

	return &source{
		spec:   spec,
		state:  st,
		pub:    pub,
		selObs: notify.NewList(),
		mgr:    mgr,
	}
}

func (s *source) nextSeq() SeqAndTime {
	s.seq++
	now := time.Now()
	return SeqAndTime{MonotonicSeq: s.seq, MonotonicTime: now, WallClockTime: now}
}

// publish must be called with s.mu held. It applies the invariants that
// depend on the transition (clearing selectedAction/abortRequested,
// carrying lastOnSeqAndTime forward across an Off->non-Off edge),
// assigns the next per-source sequence number, updates s.state, and fans
// the new value out to the source's own publisher and the manager.
func (s *source) publish(next State) State {
	if next.SignalState != OnAndWaiting && next.SignalState != OnAndActionActive {
		next.SelectedAction = ""
	}
	if next.SignalState != OnAndActionActive {
		next.AbortRequested = false
	}

	wasOff := s.state.SignalState == Off
	next.SeqAndTime = s.nextSeq()
	if wasOff && next.SignalState != Off {
		next.LastOnSeqAndTime = next.SeqAndTime
	} else {
		next.LastOnSeqAndTime = s.state.LastOnSeqAndTime
	}

	s.state = next
	s.pub.Publish(next)
	if s.mgr != nil {
		s.mgr.enqueue(next)
	}
	return next
}

func hasEnabled(m map[string]ActionEntry) bool {
	for _, a := range m {
		if a.Enabled() {
			return true
		}
	}
	return false
}

func (s *source) post(actionList map[string]ActionEntry, reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	signal := On
	if hasEnabled(actionList) {
		signal = OnAndWaiting
	}

	next := s.state
	next.SignalState = signal
	next.Reason = reason
	next.ActionList = cloneActionList(actionList)
	return s.publish(next)
}

func (s *source) signalOccurrence(reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.SignalState = OnAndWaiting
	next.Reason = reason
	next.ActionList = map[string]ActionEntry{"Acknowledge": {}}
	return s.publish(next)
}

func (s *source) set(reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state
	if cur.SignalState == Off {
		next := cur
		next.SignalState = On
		next.Reason = reason
		next.ActionList = map[string]ActionEntry{"Acknowledge": {DisabledReason: "condition is active"}}
		s.lastReasonChange = time.Now()
		return s.publish(next)
	}

	if cur.Reason == reason {
		return cur
	}
	if s.reasonHoldOff > 0 && time.Since(s.lastReasonChange) < s.reasonHoldOff {
		return cur
	}

	next := cur
	next.Reason = reason
	s.lastReasonChange = time.Now()
	return s.publish(next)
}

func (s *source) clearCondition(reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state
	if cur.SignalState == Off {
		return cur
	}

	next := cur
	next.SignalState = OnAndWaiting
	next.Reason = reason
	next.ActionList = map[string]ActionEntry{"Acknowledge": {}}
	return s.publish(next)
}

func (s *source) conditionState() SignalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SignalState
}

func (s *source) clear(reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state
	if cur.SignalState == Off {
		return cur
	}

	if cur.SignalState == OnAndActionActive {
		aborted := cur
		aborted.SignalState = OnAndActionAborted
		aborted.Reason = reason
		s.publish(aborted)
		cur = aborted
	}

	final := cur
	final.SignalState = Off
	final.Reason = reason
	final.ActionList = nil
	final.ActiveAction = ""
	return s.publish(final)
}

func (s *source) noteActionStarted(reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state
	if cur.SignalState != OnAndWaiting {
		return cur
	}

	next := cur
	next.SignalState = OnAndActionActive
	next.Reason = reason
	next.ActiveAction = cur.SelectedAction
	disabled := make(map[string]ActionEntry, len(cur.ActionList))
	for name := range cur.ActionList {
		disabled[name] = ActionEntry{DisabledReason: "action active"}
	}
	next.ActionList = disabled
	return s.publish(next)
}

func (s *source) noteActionTerminal(signal SignalState, reason string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state
	if cur.SignalState != OnAndActionActive {
		return cur
	}

	next := cur
	next.SignalState = signal
	next.Reason = reason
	return s.publish(next)
}

// autoAcknowledge is the manager's direct path from OnAndWaiting to Off
// for a state whose only action is an Acknowledge/Ack: it is a shortcut,
// not a shorthand for NoteActionStarted followed by NoteActionCompleted —
// it publishes exactly once, which is what testable property #7 (two
// publications total for SignalOccurrence + auto-ack) requires.
func (s *source) autoAcknowledge() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state
	if cur.SignalState != OnAndWaiting {
		return cur
	}

	next := cur
	next.SignalState = Off
	next.Reason = "Acknowledge action completed"
	next.ActionList = nil
	next.SelectedAction = ""
	next.ActiveAction = ""
	return s.publish(next)
}

var (
	errNotWaiting       = errors.New("annunciator: not waiting for an action selection")
	errAlreadySelected  = errors.New("annunciator: an action is already selected")
	errActionNotAllowed = errors.New("annunciator: named action is not enabled")
)

func (s *source) processSetSelectedAction(name string) error {
	s.mu.Lock()
	cur := s.state
	if cur.SignalState != OnAndWaiting {
		s.mu.Unlock()
		return ErrorActionSelection.Error(errNotWaiting)
	}
	if cur.SelectedAction != "" {
		s.mu.Unlock()
		return ErrorActionSelection.Error(errAlreadySelected)
	}
	entry, ok := cur.ActionList[name]
	if !ok || !entry.Enabled() {
		s.mu.Unlock()
		return ErrorActionSelection.Error(errActionNotAllowed)
	}

	next := cur
	next.SelectedAction = name
	s.publish(next)
	s.mu.Unlock()

	s.selObs.Fire()
	return nil
}

func (s *source) processRequestAbort() {
	s.mu.Lock()
	cur := s.state
	if cur.AbortRequested {
		s.mu.Unlock()
		return
	}
	next := cur
	next.AbortRequested = true
	s.publish(next)
	s.mu.Unlock()

	s.selObs.Fire()
}

func (s *source) currentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *source) specOf() Spec { return s.spec }

func (s *source) statePublisher() *notify.Publisher[State] { return s.pub }

func (s *source) sync(ctx context.Context) error {
	if s.mgr == nil {
		return nil
	}
	return s.mgr.Sync(ctx)
}

// Occurrence is the facet for fire-and-forget momentary events: a single
// method raises the annunciator and the manager's auto-acknowledge timer
// always clears it. Alarm is not a legal type for this facet.
type Occurrence struct{ src *source }

func (o *Occurrence) SignalOccurrence(reason string) State { return o.src.signalOccurrence(reason) }
func (o *Occurrence) Spec() Spec                           { return o.src.specOf() }
func (o *Occurrence) State() State                         { return o.src.currentState() }
func (o *Occurrence) StatePublisher() *notify.Publisher[State] {
	return o.src.statePublisher()
}
func (o *Occurrence) Sync(ctx context.Context) error { return o.src.sync(ctx) }

// Condition is the facet for level-triggered signals that stay on until
// explicitly cleared. Error is not a legal type for this facet.
type Condition struct{ src *source }

func (c *Condition) Set(reason string) State          { return c.src.set(reason) }
func (c *Condition) Clear(reason string) State         { return c.src.clearCondition(reason) }
func (c *Condition) Service(active bool, reason string) State {
	if active {
		return c.Set(reason)
	}
	return c.Clear(reason)
}
func (c *Condition) ConditionState() SignalState { return c.src.conditionState() }
func (c *Condition) Spec() Spec                  { return c.src.specOf() }
func (c *Condition) State() State                { return c.src.currentState() }
func (c *Condition) StatePublisher() *notify.Publisher[State] {
	return c.src.statePublisher()
}
func (c *Condition) Sync(ctx context.Context) error { return c.src.sync(ctx) }

// Generic is the facet with full access to every signal state, including
// externally-managed multi-step actions. Alarm is not a legal type for
// this facet.
type Generic struct{ src *source }

func (g *Generic) Clear(reason string) State { return g.src.clear(reason) }
func (g *Generic) Post(actionList map[string]ActionEntry, reason string) State {
	return g.src.post(actionList, reason)
}
func (g *Generic) NoteActionStarted(reason string) State { return g.src.noteActionStarted(reason) }
func (g *Generic) NoteActionCompleted(reason string) State {
	return g.src.noteActionTerminal(OnAndActionCompleted, reason)
}
func (g *Generic) NoteActionFailed(reason string) State {
	return g.src.noteActionTerminal(OnAndActionFailed, reason)
}
func (g *Generic) NoteActionAborted(reason string) State {
	return g.src.noteActionTerminal(OnAndActionAborted, reason)
}
func (g *Generic) Spec() Spec  { return g.src.specOf() }
func (g *Generic) State() State { return g.src.currentState() }
func (g *Generic) StatePublisher() *notify.Publisher[State] {
	return g.src.statePublisher()
}
func (g *Generic) Sync(ctx context.Context) error { return g.src.sync(ctx) }

// ObserveSelection registers fn to be called whenever a selected action or
// an abort request is recorded against this source, so an action runner
// can react without polling StatePublisher. Calling the returned cancel
// function more than once is a no-op.
func (g *Generic) ObserveSelection(fn func()) (cancel func()) {
	return g.src.selObs.Add(fn)
}
