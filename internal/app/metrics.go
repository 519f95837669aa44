package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/pauseclick/internal/classifier"
	"github.com/dshills/pauseclick/internal/config/watcher"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/scenario"
)

// Metrics counts what the plugin did across every host the App ran.
type Metrics struct {
	// Mouse events
	events     atomic.Uint64
	propagated atomic.Uint64
	decisions  [classifier.CancelDeferred + 1]atomic.Uint64

	// Host reactions
	fires           atomic.Uint64
	deferredToggles atomic.Uint64
	fullscreen      atomic.Uint64
	menus           atomic.Uint64

	// Config reloads
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64

	// Scenarios
	scenarios       atomic.Uint64
	scenarioFailed  atomic.Uint64
	scenarioVirtual atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordEvent records one classified mouse event.
func (m *Metrics) RecordEvent(ev host.Event) {
	m.events.Add(1)
	if ev.Propagated {
		m.propagated.Add(1)
	}
	if d := ev.Result.Decision; int(d) < len(m.decisions) {
		m.decisions[d].Add(1)
	}
	if ev.Fullscreen {
		m.fullscreen.Add(1)
	}
	if ev.Menu {
		m.menus.Add(1)
	}
}

// RecordFire records one deferred decision that ran.
func (m *Metrics) RecordFire(fr classifier.FireResult) {
	m.fires.Add(1)
	if fr.Toggle != nil {
		m.deferredToggles.Add(1)
	}
}

// RecordReload records one config reload attempt.
func (m *Metrics) RecordReload(ev watcher.ReloadEvent) {
	m.reloads.Add(1)
	if ev.Err != nil {
		m.reloadErrors.Add(1)
	}
}

// RecordScenario records a finished scenario.
func (m *Metrics) RecordScenario(r *scenario.Report) {
	m.scenarios.Add(1)
	if !r.OK() {
		m.scenarioFailed.Add(1)
	}
	m.scenarioVirtual.Add(int64(r.Elapsed))

	st := r.Stats
	m.events.Add(uint64(st.Events))
	m.propagated.Add(uint64(st.Propagated))
	m.fires.Add(uint64(st.Fires))
	m.fullscreen.Add(uint64(st.FullscreenToggles))
	m.menus.Add(uint64(st.ContextMenuToggles))
}

// Observe subscribes m to h's events and deferred decisions.
func (m *Metrics) Observe(h *host.Host) {
	h.OnEvent(m.RecordEvent)
	h.OnFire(m.RecordFire)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Events     uint64
	Propagated uint64
	Decisions  map[classifier.Decision]uint64

	Fires              uint64
	DeferredToggles    uint64
	FullscreenToggles  uint64
	ContextMenuToggles uint64

	Reloads      uint64
	ReloadErrors uint64

	Scenarios      uint64
	ScenarioFailed uint64
	VirtualTime    time.Duration

	Uptime time.Duration
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Events:             m.events.Load(),
		Propagated:         m.propagated.Load(),
		Decisions:          make(map[classifier.Decision]uint64, len(m.decisions)),
		Fires:              m.fires.Load(),
		FullscreenToggles:  m.fullscreen.Load(),
		ContextMenuToggles: m.menus.Load(),
		DeferredToggles:    m.deferredToggles.Load(),
		Reloads:            m.reloads.Load(),
		ReloadErrors:       m.reloadErrors.Load(),
		Scenarios:          m.scenarios.Load(),
		ScenarioFailed:     m.scenarioFailed.Load(),
		VirtualTime:        time.Duration(m.scenarioVirtual.Load()),
		Uptime:             time.Since(m.startTime),
	}
	for i := range m.decisions {
		s.Decisions[classifier.Decision(i)] = m.decisions[i].Load()
	}
	return s
}

// String renders the snapshot on one line.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("events=%d propagated=%d immediate=%d deferred=%d cancelled=%d fires=%d fullscreen=%d menu=%d reloads=%d/%d scenarios=%d/%d",
		s.Events, s.Propagated,
		s.Decisions[classifier.Immediate], s.Decisions[classifier.Deferred], s.Decisions[classifier.CancelDeferred],
		s.Fires, s.FullscreenToggles, s.ContextMenuToggles,
		s.Reloads-s.ReloadErrors, s.Reloads,
		s.Scenarios-s.ScenarioFailed, s.Scenarios)
}
