// Package lifecycle drives the simulated run-status and visibility
// transitions of server records.
//
// Each record runs two independent state machines: the run-status cycle
// (offline -> starting -> online -> stopping -> offline) and the visibility
// loop (idle -> publishing/unpublishing -> idle). Transient states resolve
// after a fixed latency via a timer keyed by record id, so transitions for
// different records never interfere. Timers are cancellable: deleting a
// record cancels its pending resolutions, and a resolution that fires for a
// record removed in the meantime is dropped.
package lifecycle

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/agentfleet/fleetconsole/internal/console/store"
	"github.com/agentfleet/fleetconsole/pkg/models"
)

// DefaultLatency is how long a transient state lasts before resolving.
const DefaultLatency = 2 * time.Second

// ErrTransitionInProgress is returned when a toggle is invoked while the
// previous transition has not resolved yet.
var ErrTransitionInProgress = errors.New("transition already in progress")

type fsm int

const (
	fsmRun fsm = iota
	fsmVisibility
)

type timerKey struct {
	id  string
	fsm fsm
}

// Manager schedules and resolves lifecycle transitions against the store.
type Manager struct {
	store   *store.Store
	latency time.Duration
	intn    func(n int) int

	mu     sync.Mutex
	timers map[timerKey]*time.Timer
}

// Option configures a Manager.
type Option func(*Manager)

// WithLatency overrides the transition latency.
func WithLatency(latency time.Duration) Option {
	return func(m *Manager) {
		m.latency = latency
	}
}

// WithRand overrides the randomness source used to pick the simulated
// agent load on startup. The function must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(m *Manager) {
		m.intn = intn
	}
}

// NewManager creates a lifecycle manager bound to the store.
func NewManager(st *store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   st,
		latency: DefaultLatency,
		intn:    rand.Intn,
		timers:  make(map[timerKey]*time.Timer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ToggleRunStatus starts an offline record or stops an online one. The
// record moves to the matching transient state immediately and resolves
// after the configured latency. Returns ErrTransitionInProgress while the
// record is starting or stopping.
func (m *Manager) ToggleRunStatus(id string) (models.ServerRecord, error) {
	record, err := m.store.Get(id)
	if err != nil {
		return models.ServerRecord{}, err
	}
	if record.RunStatus.IsTransient() {
		return models.ServerRecord{}, ErrTransitionInProgress
	}

	next := models.RunStatusStarting
	if record.RunStatus == models.RunStatusOnline {
		next = models.RunStatusStopping
	}

	updated, err := m.store.Update(id, store.Patch{RunStatus: &next})
	if err != nil {
		return models.ServerRecord{}, err
	}

	m.schedule(timerKey{id: id, fsm: fsmRun}, func() {
		m.resolveRunStatus(id)
	})
	return updated, nil
}

// ToggleVisibility publishes a private record or unpublishes a public one.
// Returns ErrTransitionInProgress while a publish or unpublish is pending.
func (m *Manager) ToggleVisibility(id string) (models.ServerRecord, error) {
	record, err := m.store.Get(id)
	if err != nil {
		return models.ServerRecord{}, err
	}
	if record.VisibilityStatus != models.VisibilityIdle {
		return models.ServerRecord{}, ErrTransitionInProgress
	}

	next := models.VisibilityPublishing
	if record.IsPublic {
		next = models.VisibilityUnpublishing
	}

	updated, err := m.store.Update(id, store.Patch{VisibilityStatus: &next})
	if err != nil {
		return models.ServerRecord{}, err
	}

	m.schedule(timerKey{id: id, fsm: fsmVisibility}, func() {
		m.resolveVisibility(id)
	})
	return updated, nil
}

// Cancel stops any pending transitions for the record. Called when the
// record is deleted so a stale resolution never mutates a successor record
// reusing the id.
func (m *Manager) Cancel(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, machine := range []fsm{fsmRun, fsmVisibility} {
		key := timerKey{id: id, fsm: machine}
		if timer, ok := m.timers[key]; ok {
			timer.Stop()
			delete(m.timers, key)
		}
	}
}

// Close cancels every pending transition.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, timer := range m.timers {
		timer.Stop()
		delete(m.timers, key)
	}
}

func (m *Manager) schedule(key timerKey, resolve func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[key] = time.AfterFunc(m.latency, func() {
		m.clearTimer(key)
		resolve()
	})
}

func (m *Manager) clearTimer(key timerKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, key)
}

// resolveRunStatus completes a starting or stopping transition. The record
// may have been deleted since the transition began; a missing record is
// ignored. LastModified is deliberately not refreshed here: the initial
// toggle already counted as the modification.
func (m *Manager) resolveRunStatus(id string) {
	_, _ = m.store.Apply(id, func(record *models.ServerRecord) {
		switch record.RunStatus {
		case models.RunStatusStarting:
			record.RunStatus = models.RunStatusOnline
			record.AgentsRunning = m.simulatedLoad(record.MaxAgents)
		case models.RunStatusStopping:
			record.RunStatus = models.RunStatusOffline
			record.AgentsRunning = 0
		}
	})
}

func (m *Manager) resolveVisibility(id string) {
	_, _ = m.store.Apply(id, func(record *models.ServerRecord) {
		switch record.VisibilityStatus {
		case models.VisibilityPublishing:
			record.IsPublic = true
			record.VisibilityStatus = models.VisibilityIdle
		case models.VisibilityUnpublishing:
			record.IsPublic = false
			record.VisibilityStatus = models.VisibilityIdle
		}
	})
}

// simulatedLoad picks the number of agents running after a start, in
// [0, maxAgents).
func (m *Manager) simulatedLoad(maxAgents int) int {
	if maxAgents <= 0 {
		return 0
	}
	return m.intn(maxAgents)
}
