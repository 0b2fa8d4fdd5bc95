// Package agent implements the per-agent stateful actor: the single
// authoritative owner of one agent's durable state. All access to an
// agent's state flows through its actor goroutine as request envelopes, so
// state mutation between I/O suspension points is atomic with respect to
// other requests for the same agent. Different agents share nothing.
package agent

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync/atomic"
	"time"

	"minewright.ai/internal/coordinator"
	"minewright.ai/internal/protocol"
)

// Store is the durable state backend, one record per agent.
type Store interface {
	Load(ctx context.Context, agentID string) (*protocol.AgentState, bool, error)
	Save(ctx context.Context, agentID string, st *protocol.AgentState) error
}

// Endpoints understood by the actor.
const (
	EndpointSync      = "sync"
	EndpointMission   = "mission"
	EndpointTactical  = "tactical"
	EndpointTelemetry = "telemetry"
	EndpointHealth    = "health"

	endpointSyncCycle = "synccycle" // internal: periodic coordinator sync
)

type request struct {
	endpoint string
	method   string
	body     []byte
	query    url.Values
	resp     chan response
}

type response struct {
	payload any
	err     error
}

// Actor owns one agent's state. Create with NewActor, then Start; all
// interaction goes through Do.
type Actor struct {
	id      string
	store   Store
	sync    *coordinator.SyncManager
	log     *log.Logger
	onEvent func(protocol.TelemetryEvent)
	now     func() time.Time

	inbox chan *request
	stop  chan struct{}

	lastUsed atomic.Int64

	// Loop-owned; never touched outside the run goroutine.
	state     *protocol.AgentState
	telemetry *TelemetryRing
}

func NewActor(id string, store Store, sm *coordinator.SyncManager, telemetryCap int, logger *log.Logger, onEvent func(protocol.TelemetryEvent)) *Actor {
	a := &Actor{
		id:        id,
		store:     store,
		sync:      sm,
		log:       logger,
		onEvent:   onEvent,
		now:       time.Now,
		inbox:     make(chan *request, 16),
		stop:      make(chan struct{}),
		telemetry: NewTelemetryRing(telemetryCap),
	}
	a.lastUsed.Store(time.Now().UnixNano())
	return a
}

func (a *Actor) Start() { go a.run() }

func (a *Actor) Close() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
}

func (a *Actor) LastUsed() time.Time {
	return time.Unix(0, a.lastUsed.Load())
}

// Do submits one request envelope and waits for the actor's answer.
func (a *Actor) Do(ctx context.Context, endpoint, method string, body []byte, query url.Values) (any, error) {
	req := &request{
		endpoint: endpoint,
		method:   method,
		body:     body,
		query:    query,
		resp:     make(chan response, 1),
	}
	select {
	case a.inbox <- req:
	case <-a.stop:
		return nil, protocol.Internalf("agent %s stopped", a.id)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-req.resp:
		return res.payload, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TriggerSync queues a coordinator sync cycle; dropped if the actor is
// busy so a slow coordinator can never back up the inbox.
func (a *Actor) TriggerSync() {
	req := &request{endpoint: endpointSyncCycle}
	select {
	case a.inbox <- req:
	default:
	}
}

func (a *Actor) run() {
	for {
		select {
		case req := <-a.inbox:
			a.process(req)
		case <-a.stop:
			return
		}
	}
}

func (a *Actor) process(req *request) {
	a.lastUsed.Store(a.now().UnixNano())

	ctx := context.Background()
	payload, err := a.dispatch(ctx, req)
	if err != nil {
		if _, ok := err.(*protocol.APIError); !ok {
			// Uncaught failure: record it before surfacing a 500.
			a.logTelemetry("error", map[string]any{
				"context": req.endpoint,
				"message": err.Error(),
			})
			if a.state != nil {
				if serr := a.saveState(ctx); serr != nil {
					a.log.Printf("agent %s: save error event: %v", a.id, serr)
				}
			}
			err = protocol.Internalf("%v", err)
		}
	}
	if req.resp != nil {
		req.resp <- response{payload: payload, err: err}
	}
}

func (a *Actor) dispatch(ctx context.Context, req *request) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch req.endpoint {
	case EndpointSync:
		return a.handleSync(ctx, req)
	case EndpointMission:
		return a.handleMission(ctx, req)
	case EndpointTactical:
		return a.handleTactical(ctx, req)
	case EndpointTelemetry:
		return a.handleTelemetry(ctx, req)
	case EndpointHealth:
		return a.handleHealth(req)
	case endpointSyncCycle:
		return nil, a.runSyncCycle(ctx)
	default:
		return nil, protocol.NotFoundf("Not found: %s", req.endpoint)
	}
}

// ensureLoaded lazily pulls state from storage, initializing a fresh agent
// on first access.
func (a *Actor) ensureLoaded(ctx context.Context) error {
	if a.state != nil {
		return nil
	}
	st, ok, err := a.store.Load(ctx, a.id)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if !ok {
		a.state = newState(a.id, a.now())
		return a.saveState(ctx)
	}
	a.state = st
	a.telemetry.Restore(st.TelemetryEvents)
	return nil
}

func (a *Actor) saveState(ctx context.Context) error {
	a.state.LastActive = protocol.Timestamp(a.now())
	a.state.TelemetryEvents = a.telemetry.Snapshot()
	if err := a.store.Save(ctx, a.id, a.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// snapshotState returns a flat copy of the current state with the telemetry
// buffer folded in, safe to hand outside the loop.
func (a *Actor) snapshotState() protocol.AgentState {
	st := *a.state
	st.TelemetryEvents = a.telemetry.Snapshot()
	st.ActiveThreats = append([]protocol.Threat(nil), a.state.ActiveThreats...)
	st.KnownHazards = append([]protocol.Hazard(nil), a.state.KnownHazards...)
	st.MissionQueue = append([]protocol.Mission(nil), a.state.MissionQueue...)
	return st
}

func (a *Actor) logTelemetry(eventType string, data map[string]any) {
	e := protocol.TelemetryEvent{
		EventType: eventType,
		Timestamp: protocol.Timestamp(a.now()),
		AgentID:   a.id,
		Data:      data,
	}
	a.telemetry.Append(e)
	if a.onEvent != nil {
		a.onEvent(e)
	}
}

// runSyncCycle is the coordinator exchange, processed as just another
// message so it never interleaves with a request handler.
func (a *Actor) runSyncCycle(ctx context.Context) error {
	if a.sync == nil {
		return nil
	}
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	res, err := coordinator.PerformPeriodicSync(ctx, a.sync, a.snapshotState(), a.telemetry)
	if err != nil {
		// Recorded in SyncState; never surfaced to the request path.
		a.log.Printf("agent %s: sync: %v", a.id, err)
		return nil
	}
	if !res.Synced {
		return nil
	}
	for _, m := range res.Missions {
		a.enqueueMission(m)
	}
	if len(res.ConfigUpdates) > 0 {
		a.log.Printf("agent %s: %d config updates from coordinator", a.id, len(res.ConfigUpdates))
	}
	if err := a.saveState(ctx); err != nil {
		a.log.Printf("agent %s: persist after sync: %v", a.id, err)
	}
	return nil
}
