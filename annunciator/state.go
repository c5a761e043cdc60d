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

import "time"

// Type is the kind of annunciator a Spec describes.
type Type uint8

const (
	Attention Type = iota
	Warning
	Error
	Alarm
)

func (t Type) String() string {
	switch t {
	case Attention:
		return "Attention"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Alarm:
		return "Alarm"
	default:
		return "Unknown"
	}
}

// AlarmID is either a positive process-specific alarm identifier or one
// of three special values: no alarm-id association at all, or a request
// that the manager resolve one (optionally tolerating failure).
type AlarmID int

const (
	AlarmIDNone           AlarmID = 0
	AlarmIDLookup         AlarmID = -1
	AlarmIDOptionalLookup AlarmID = -2
)

// LookupStatus is the state of an AlarmIDLookup/AlarmIDOptionalLookup
// resolution against the manager's alarm-id bridge.
type LookupStatus uint8

const (
	LookupNone LookupStatus = iota
	LookupPending
	LookupFound
	LookupNotFound
)

// Spec is a registered annunciator's immutable identity. SpecId is a
// process-unique identifier assigned by the manager at registration time
// (unless the caller already supplied one) — Name is the human-facing,
// caller-chosen key used for lookup; SpecId exists for collaborators (an
// external alarm system, an audit log) that want a stable handle immune to
// a future rename.
type Spec struct {
	Name    string
	SpecId  string
	Comment string
	Type    Type
	AlarmID AlarmID
}

// SignalState is a source's current position in the §4.5 state machine.
type SignalState uint8

const (
	Off SignalState = iota
	On
	OnAndWaiting
	OnAndActionActive
	OnAndActionCompleted
	OnAndActionFailed
	OnAndActionAborted
)

func (s SignalState) String() string {
	switch s {
	case Off:
		return "Off"
	case On:
		return "On"
	case OnAndWaiting:
		return "OnAndWaiting"
	case OnAndActionActive:
		return "OnAndActionActive"
	case OnAndActionCompleted:
		return "OnAndActionCompleted"
	case OnAndActionFailed:
		return "OnAndActionFailed"
	case OnAndActionAborted:
		return "OnAndActionAborted"
	default:
		return "Unknown"
	}
}

// signaling reports whether s belongs in the manager's "active" set.
func (s SignalState) signaling() bool {
	return s != Off
}

// ActionEntry is one entry of a state's action list: enabled, or disabled
// with an explanatory reason (an empty reason means enabled).
type ActionEntry struct {
	DisabledReason string
}

func (a ActionEntry) Enabled() bool { return a.DisabledReason == "" }

// SeqAndTime is the sequence/timestamp triple attached to every published
// state: a strictly increasing counter plus the monotonic and wall-clock
// times it was assigned.
type SeqAndTime struct {
	MonotonicSeq  uint64
	MonotonicTime time.Time
	WallClockTime time.Time
}

// State is a source's full, immutable, published value.
type State struct {
	Spec Spec

	SignalState SignalState
	Reason      string

	SeqAndTime       SeqAndTime
	LastOnSeqAndTime SeqAndTime

	ActionList     map[string]ActionEntry
	SelectedAction string
	ActiveAction   string
	AbortRequested bool

	AlarmID      AlarmID
	LookupStatus LookupStatus
}

// Valid checks the invariants of §3.6 that are local to one State value
// (sequence monotonicity is checked across a series, not a single value).
func (s State) Valid() bool {
	if s.SignalState == Off {
		if s.SelectedAction != "" || s.ActiveAction != "" || s.AbortRequested {
			return false
		}
	}
	if s.SignalState == OnAndActionActive {
		if s.ActiveAction == "" {
			return false
		}
		for _, a := range s.ActionList {
			if a.Enabled() {
				return false
			}
		}
	}
	if s.AlarmID == AlarmIDNone || s.AlarmID == AlarmIDLookup || s.AlarmID == AlarmIDOptionalLookup {
		switch s.LookupStatus {
		case LookupNone, LookupPending, LookupFound, LookupNotFound:
		default:
			return false
		}
	}
	return true
}

func cloneActionList(m map[string]ActionEntry) map[string]ActionEntry {
	if m == nil {
		return nil
	}
	out := make(map[string]ActionEntry, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
