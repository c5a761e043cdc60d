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
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mosaicsys/serialio/notify"
	librun "github.com/mosaicsys/serialio/runner/startStop"
)

// AlarmBridge is the optional collaborator that maps a Spec to an
// external alarm identifier and is told when an annunciator's signaling
// status flips. It may be installed after sources have already been
// registered with a pending Lookup/OptionalLookup AlarmID; the manager
// services the backlog once SetAlarmBridge is called.
type AlarmBridge interface {
	GetAlarmIDFromSpec(spec Spec) int
	NoteAlarmIDChanged(id int, active bool, reason string)
}

// Config parameterizes a Manager. A zero AutoAckDelay for a Type disables
// nothing — per the Open Questions decision recorded in DESIGN.md, this
// module reads a zero delay as "acknowledge on the very next scan pass",
// consistent with the literal reading already chosen for Condition's
// reason hold-off.
type Config struct {
	AutoAckDelay [4]time.Duration

	ActiveCapacity  int
	RecentCapacity  int
	RecentMaxAge    time.Duration
	HistoryCapacity int

	ScanInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.ActiveCapacity <= 0 {
		c.ActiveCapacity = 1000
	}
	if c.RecentCapacity <= 0 {
		c.RecentCapacity = 100
	}
	if c.RecentMaxAge <= 0 {
		c.RecentMaxAge = time.Hour
	}
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = 10000
	}
	if c.ScanInterval <= 0 {
		c.ScanInterval = time.Second
	}
	return c
}

type trackingRecord struct {
	source        *source
	pendingLookup bool
}

type recentEntry struct {
	state     State
	clearedAt time.Time
}

type intakeEntry struct {
	state    State
	syncDone chan struct{}
}

// Manager is the C6 annunciator manager: registration, publication, the
// active/recent/history sets, auto-acknowledge, and the alarm-id bridge.
type Manager struct {
	cfg Config

	mu       sync.Mutex
	tracking map[string]*trackingRecord
	prePub   map[string]*notify.Publisher[State]

	alarmBridge  AlarmBridge
	metrics      *Metrics
	autoAckCount atomic.Int64

	setsMu  sync.RWMutex
	active  map[string]State
	recent  map[string]recentEntry
	history []State

	activePub  *notify.Publisher[uint64]
	recentPub  *notify.Publisher[uint64]
	historyPub *notify.Publisher[uint64]

	intake chan intakeEntry
	wake   *notify.Notifier

	runner librun.StartStop
}

// New builds a Manager. Call Start before registering sources that rely
// on auto-acknowledge or alarm-id lookups — registration itself does not
// require the worker to be running, but no intake entry is applied until
// it is.
func New(cfg Config) *Manager {
	cfg = cfg.withDefaults()

	m := &Manager{
		cfg:        cfg,
		tracking:   make(map[string]*trackingRecord),
		prePub:     make(map[string]*notify.Publisher[State]),
		active:     make(map[string]State),
		recent:     make(map[string]recentEntry),
		activePub:  notify.NewPublisher(uint64(0)),
		recentPub:  notify.NewPublisher(uint64(0)),
		historyPub: notify.NewPublisher(uint64(0)),
		intake:     make(chan intakeEntry, 1024),
		wake:       notify.NewNotifier(),
	}
	m.runner = librun.New(m.run, m.shutdown)
	return m
}

func (m *Manager) Start(ctx context.Context) error   { return m.runner.Start(ctx) }
func (m *Manager) Stop(ctx context.Context) error    { return m.runner.Stop(ctx) }
func (m *Manager) Restart(ctx context.Context) error { return m.runner.Restart(ctx) }
func (m *Manager) IsRunning() bool                   { return m.runner.IsRunning() }
func (m *Manager) Uptime() time.Duration             { return m.runner.Uptime() }
func (m *Manager) ErrorsLast() error                 { return m.runner.ErrorsLast() }
func (m *Manager) ErrorsList() []error               { return m.runner.ErrorsList() }

func (m *Manager) enqueue(st State) {
	m.intake <- intakeEntry{state: st}
	m.wake.Notify()
}

// Sync round-trips through the manager's worker: it returns once every
// intake entry enqueued before this call has been applied.
func (m *Manager) Sync(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case m.intake <- intakeEntry{syncDone: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.wake.Notify()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) registerCommon(spec Spec, forbidden Type) (*source, error) {
	if spec.Name == "" {
		return nil, ErrorRegistration.Error(errors.New("empty annunciator name"))
	}
	if spec.Type == forbidden {
		return nil, ErrorInvalidSpecForFacet.Error()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tracking[spec.Name]; exists {
		return nil, ErrorDuplicateName.Error()
	}

	if spec.SpecId == "" {
		spec.SpecId = uuid.NewString()
	}

	pub := m.prePub[spec.Name]
	delete(m.prePub, spec.Name)

	src := newSource(m, spec, pub)
	tr := &trackingRecord{source: src}
	m.tracking[spec.Name] = tr

	if spec.AlarmID == AlarmIDLookup || spec.AlarmID == AlarmIDOptionalLookup {
		tr.pendingLookup = true
		if m.alarmBridge != nil {
			m.tryLookup(tr)
		}
	}

	m.enqueue(src.currentState())
	return src, nil
}

// RegisterOccurrence registers name as an Occurrence facet. Alarm is not
// a legal type for this facet.
func (m *Manager) RegisterOccurrence(spec Spec) (*Occurrence, error) {
	src, err := m.registerCommon(spec, Alarm)
	if err != nil {
		return nil, err
	}
	return &Occurrence{src: src}, nil
}

// RegisterCondition registers name as a Condition facet. Error is not a
// legal type for this facet. reasonHoldOff throttles reason-only updates
// while the condition stays On; zero means every Set call with a
// different reason is applied immediately.
func (m *Manager) RegisterCondition(spec Spec, reasonHoldOff time.Duration) (*Condition, error) {
	src, err := m.registerCommon(spec, Error)
	if err != nil {
		return nil, err
	}
	src.reasonHoldOff = reasonHoldOff
	return &Condition{src: src}, nil
}

// RegisterSource registers name as a Generic facet. Alarm is not a legal
// type for this facet.
func (m *Manager) RegisterSource(spec Spec) (*Generic, error) {
	src, err := m.registerCommon(spec, Alarm)
	if err != nil {
		return nil, err
	}
	return &Generic{src: src}, nil
}

// GetStatePublisher returns a publisher for name, even if name is not yet
// registered — it starts out holding the zero State and becomes
// populated the moment a source is registered under that name and
// publishes its first transition.
func (m *Manager) GetStatePublisher(name string) *notify.Publisher[State] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tr, ok := m.tracking[name]; ok {
		return tr.source.statePublisher()
	}
	if p, ok := m.prePub[name]; ok {
		return p
	}

	p := notify.NewPublisher(State{})
	m.prePub[name] = p
	return p
}

func (m *Manager) lookupTracking(name string) *trackingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracking[name]
}

// SetSelectedActionName processes the intake queue so the manager's view
// of name is current, then forwards the selection to its source.
func (m *Manager) SetSelectedActionName(ctx context.Context, name, action string) error {
	tr := m.lookupTracking(name)
	if tr == nil {
		return ErrorUnknownName.Error()
	}
	if err := m.Sync(ctx); err != nil {
		return err
	}
	return tr.source.processSetSelectedAction(action)
}

// RequestActionAbort forwards an abort request to name's source.
func (m *Manager) RequestActionAbort(name string) error {
	tr := m.lookupTracking(name)
	if tr == nil {
		return ErrorUnknownName.Error()
	}
	tr.source.processRequestAbort()
	return nil
}

// SelectActionNameForAll attempts action on every currently-active source
// that is OnAndWaiting, has no selection yet, and lists action as enabled.
func (m *Manager) SelectActionNameForAll(ctx context.Context, action string) {
	m.setsMu.RLock()
	names := make([]string, 0, len(m.active))
	for name, st := range m.active {
		if st.SignalState != OnAndWaiting || st.SelectedAction != "" {
			continue
		}
		if entry, ok := st.ActionList[action]; ok && entry.Enabled() {
			names = append(names, name)
		}
	}
	m.setsMu.RUnlock()

	for _, name := range names {
		_ = m.SetSelectedActionName(ctx, name, action)
	}
}

func (m *Manager) ClearRecentSet() {
	m.setsMu.Lock()
	m.recent = make(map[string]recentEntry)
	m.setsMu.Unlock()
	bumpSeq(m.recentPub)
}

func (m *Manager) ClearHistorySet() {
	m.setsMu.Lock()
	m.history = nil
	m.setsMu.Unlock()
	bumpSeq(m.historyPub)
}

// bumpSeq publishes the next sequence value on a counter-only publisher,
// used to let callers Subscribe to "the active/recent/history set just
// changed" without the manager duplicating the set contents into the
// published value.
func bumpSeq(p *notify.Publisher[uint64]) {
	cur, _ := p.Current()
	p.Publish(cur + 1)
}

// ActiveSnapshot, RecentSnapshot, and HistorySnapshot return point-in-time
// copies of the three sets described in §3.7.
func (m *Manager) ActiveSnapshot() []State {
	m.setsMu.RLock()
	defer m.setsMu.RUnlock()
	out := make([]State, 0, len(m.active))
	for _, st := range m.active {
		out = append(out, st)
	}
	return out
}

func (m *Manager) RecentSnapshot() []State {
	m.setsMu.RLock()
	defer m.setsMu.RUnlock()
	out := make([]State, 0, len(m.recent))
	for _, e := range m.recent {
		out = append(out, e.state)
	}
	return out
}

func (m *Manager) HistorySnapshot() []State {
	m.setsMu.RLock()
	defer m.setsMu.RUnlock()
	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}

// SetAlarmBridge installs b. Replacing a previously installed, different
// instance is rejected — the handler must not be silently swapped.
func (m *Manager) SetAlarmBridge(b AlarmBridge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.alarmBridge != nil && m.alarmBridge != b {
		return ErrorAlarmHandlerAlreadySet.Error()
	}
	m.alarmBridge = b

	for _, tr := range m.tracking {
		if tr.pendingLookup {
			m.tryLookup(tr)
		}
	}
	return nil
}

// tryLookup must be called with m.mu held.
func (m *Manager) tryLookup(tr *trackingRecord) {
	id := m.alarmBridge.GetAlarmIDFromSpec(tr.source.specOf())
	tr.pendingLookup = false

	tr.source.mu.Lock()
	st := tr.source.state
	if id != 0 {
		st.AlarmID = AlarmID(id)
		st.LookupStatus = LookupFound
	} else {
		st.LookupStatus = LookupNotFound
	}
	signaling := st.SignalState.signaling()
	tr.source.state = st
	tr.source.pub.Publish(st)
	tr.source.mu.Unlock()

	m.enqueue(st)
	if signaling {
		m.alarmBridge.NoteAlarmIDChanged(id, true, st.Reason)
	}
}

func (m *Manager) shutdown(_ context.Context) error { return nil }

func (m *Manager) run(ctx context.Context) error {
	for {
		for drained := false; !drained; {
			select {
			case e := <-m.intake:
				if e.syncDone != nil {
					close(e.syncDone)
					continue
				}
				m.applyIntake(e.state)
			default:
				drained = true
			}
		}

		m.scanAutoAck()

		if ctx.Err() != nil {
			return nil
		}
		m.wake.Wait(ctx, m.cfg.ScanInterval)
	}
}

func (m *Manager) applyIntake(st State) {
	name := st.Spec.Name

	m.setsMu.Lock()
	_, wasActive := m.active[name]
	if st.SignalState.signaling() {
		m.active[name] = st
		delete(m.recent, name)
		if len(m.active) > m.cfg.ActiveCapacity {
			m.evictOldestActiveLocked()
		}
	} else if wasActive {
		delete(m.active, name)
		m.recent[name] = recentEntry{state: st, clearedAt: time.Now()}
		m.pruneRecentLocked()
	}

	m.history = append(m.history, st)
	if len(m.history) > m.cfg.HistoryCapacity {
		m.history = m.history[len(m.history)-m.cfg.HistoryCapacity:]
	}
	activeLen, recentLen, historyLen := len(m.active), len(m.recent), len(m.history)
	m.setsMu.Unlock()

	m.mu.Lock()
	metrics := m.metrics
	m.mu.Unlock()
	if metrics != nil {
		metrics.observeSets(activeLen, recentLen, historyLen)
	}

	bumpSeq(m.activePub)
	if !st.SignalState.signaling() && wasActive {
		bumpSeq(m.recentPub)
	}
	bumpSeq(m.historyPub)

	if st.SignalState.signaling() && !wasActive {
		m.noteAlarm(name, st, true)
	} else if !st.SignalState.signaling() && wasActive {
		m.noteAlarm(name, st, false)
	}
}

// evictOldestActiveLocked drops the oldest-by-sequence active entry when
// over capacity. Must be called with setsMu held.
func (m *Manager) evictOldestActiveLocked() {
	var oldestName string
	var oldestSeq uint64 = ^uint64(0)
	for name, st := range m.active {
		if st.SeqAndTime.MonotonicSeq < oldestSeq {
			oldestSeq = st.SeqAndTime.MonotonicSeq
			oldestName = name
		}
	}
	if oldestName != "" {
		delete(m.active, oldestName)
	}
}

// pruneRecentLocked enforces the recent set's count and age bounds. Must
// be called with setsMu held.
func (m *Manager) pruneRecentLocked() {
	cutoff := time.Now().Add(-m.cfg.RecentMaxAge)
	for name, e := range m.recent {
		if e.clearedAt.Before(cutoff) {
			delete(m.recent, name)
		}
	}
	for len(m.recent) > m.cfg.RecentCapacity {
		var oldestName string
		var oldest time.Time
		first := true
		for name, e := range m.recent {
			if first || e.clearedAt.Before(oldest) {
				oldest = e.clearedAt
				oldestName = name
				first = false
			}
		}
		delete(m.recent, oldestName)
	}
}

func (m *Manager) noteAlarm(name string, st State, active bool) {
	m.mu.Lock()
	bridge := m.alarmBridge
	tr := m.tracking[name]
	m.mu.Unlock()

	if bridge == nil || tr == nil {
		return
	}
	bridge.NoteAlarmIDChanged(int(st.AlarmID), active, st.Reason)
}

func soleEnabledAck(m map[string]ActionEntry) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	for name, entry := range m {
		if !entry.Enabled() {
			return "", false
		}
		if name != "Acknowledge" && name != "Ack" {
			return "", false
		}
		return name, true
	}
	return "", false
}

func (m *Manager) scanAutoAck() {
	m.setsMu.RLock()
	type candidate struct {
		name string
		typ  Type
		age  time.Duration
	}
	var candidates []candidate
	for name, st := range m.active {
		if st.SignalState != OnAndWaiting {
			continue
		}
		if _, ok := soleEnabledAck(st.ActionList); !ok {
			continue
		}
		candidates = append(candidates, candidate{
			name: name,
			typ:  st.Spec.Type,
			age:  time.Since(st.SeqAndTime.MonotonicTime),
		})
	}
	m.setsMu.RUnlock()

	for _, c := range candidates {
		delay := m.cfg.AutoAckDelay[c.typ]
		if delay > 0 && c.age < delay {
			continue
		}
		tr := m.lookupTracking(c.name)
		if tr != nil {
			tr.source.autoAcknowledge()
			m.autoAckCount.Add(1)

			m.mu.Lock()
			metrics := m.metrics
			m.mu.Unlock()
			if metrics != nil {
				metrics.incAutoAck()
			}
		}
	}
}
