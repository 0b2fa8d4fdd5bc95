package agent

import (
	"context"
	"log"
	"net/url"
	"sync"
	"time"

	"minewright.ai/internal/coordinator"
	"minewright.ai/internal/protocol"
)

// ManagerConfig bounds the in-memory actor set. Evicting an actor drops
// only the goroutine and its buffers; stored state is untouched.
type ManagerConfig struct {
	MaxActors         int
	TelemetryCapacity int
}

// Manager routes requests to per-agent actors, creating them on first
// access. Mirrors the session-manager shape: LRU-bounded map keyed by
// agent id.
type Manager struct {
	cfg     ManagerConfig
	store   Store
	coord   *coordinator.Client
	syncInt time.Duration
	log     *log.Logger
	onEvent func(protocol.TelemetryEvent)

	mu     sync.Mutex
	actors map[string]*Actor
	closed bool
}

func NewManager(cfg ManagerConfig, store Store, coord *coordinator.Client, syncInterval time.Duration, logger *log.Logger, onEvent func(protocol.TelemetryEvent)) *Manager {
	if cfg.MaxActors <= 0 {
		cfg.MaxActors = 256
	}
	if cfg.TelemetryCapacity <= 0 {
		cfg.TelemetryCapacity = DefaultTelemetryCapacity
	}
	return &Manager{
		cfg:     cfg,
		store:   store,
		coord:   coord,
		syncInt: syncInterval,
		log:     logger,
		onEvent: onEvent,
		actors:  map[string]*Actor{},
	}
}

func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	actors := make([]*Actor, 0, len(m.actors))
	for _, a := range m.actors {
		actors = append(actors, a)
	}
	m.mu.Unlock()

	for _, a := range actors {
		a.Close()
	}
}

// Dispatch sends one request to the named agent's actor and waits for its
// answer.
func (m *Manager) Dispatch(ctx context.Context, agentID, endpoint, method string, body []byte, query url.Values) (any, error) {
	a, err := m.getOrCreate(agentID)
	if err != nil {
		return nil, err
	}
	return a.Do(ctx, endpoint, method, body, query)
}

// SyncAll queues a coordinator sync cycle on every live actor. Each actor
// decides via its own cadence whether the cycle does anything.
func (m *Manager) SyncAll() {
	m.mu.Lock()
	actors := make([]*Actor, 0, len(m.actors))
	for _, a := range m.actors {
		actors = append(actors, a)
	}
	m.mu.Unlock()

	for _, a := range actors {
		a.TriggerSync()
	}
}

func (m *Manager) getOrCreate(agentID string) (*Actor, error) {
	if agentID == "" {
		return nil, protocol.Validationf("missing agent id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, protocol.Internalf("agent manager closed")
	}

	if a := m.actors[agentID]; a != nil {
		return a, nil
	}

	// Bound live actors; evict the least recently used.
	if len(m.actors) >= m.cfg.MaxActors {
		var oldestKey string
		var oldest time.Time
		for k, a := range m.actors {
			t := a.LastUsed()
			if oldestKey == "" || t.Before(oldest) {
				oldestKey = k
				oldest = t
			}
		}
		if oldestKey != "" {
			m.actors[oldestKey].Close()
			delete(m.actors, oldestKey)
		}
	}

	var sm *coordinator.SyncManager
	if m.coord != nil {
		sm = coordinator.NewSyncManager(m.coord, agentID, m.syncInt)
	}
	a := NewActor(agentID, m.store, sm, m.cfg.TelemetryCapacity, m.log, m.onEvent)
	m.actors[agentID] = a
	a.Start()
	return a, nil
}
