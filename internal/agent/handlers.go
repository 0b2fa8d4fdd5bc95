package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"minewright.ai/internal/protocol"
	"minewright.ai/internal/tactical"
)

// GET /sync returns the full serialized state; POST applies a partial merge
// where only supplied fields overwrite, with an optional mission append.
func (a *Actor) handleSync(ctx context.Context, req *request) (any, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	switch req.method {
	case http.MethodGet:
		return a.snapshotState(), nil

	case http.MethodPost:
		var patch protocol.StatePatch
		if err := json.Unmarshal(req.body, &patch); err != nil {
			return nil, err
		}
		applyPatch(a.state, patch)
		if patch.Mission != nil {
			a.enqueueMission(patch.Mission)
		}
		if err := a.saveState(ctx); err != nil {
			return nil, err
		}
		return protocol.SyncAck{
			Status:    "synced",
			AgentID:   a.state.AgentID,
			Timestamp: protocol.Timestamp(a.now()),
		}, nil

	default:
		return nil, protocol.MethodNotAllowed()
	}
}

// The mission queue is strict FIFO: POST appends to the tail, DELETE pops
// the head.
func (a *Actor) handleMission(ctx context.Context, req *request) (any, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	switch req.method {
	case http.MethodGet:
		missions := a.state.MissionQueue
		if missions == nil {
			missions = []protocol.Mission{}
		}
		return protocol.MissionList{
			AgentID:  a.state.AgentID,
			Missions: missions,
			Current:  a.state.CurrentTask,
		}, nil

	case http.MethodPost:
		var body protocol.MissionQueueRequest
		if err := json.Unmarshal(req.body, &body); err != nil {
			return nil, err
		}
		if len(body.Mission) == 0 {
			return nil, protocol.Validationf("Missing mission")
		}
		a.enqueueMission(body.Mission)
		if err := a.saveState(ctx); err != nil {
			return nil, err
		}
		return protocol.MissionQueued{
			Status:      "queued",
			QueueLength: len(a.state.MissionQueue),
		}, nil

	case http.MethodDelete:
		if len(a.state.MissionQueue) == 0 {
			return nil, protocol.NotFoundf("No missions to complete")
		}
		completed := a.state.MissionQueue[0]
		a.state.MissionQueue = a.state.MissionQueue[1:]
		if err := a.saveState(ctx); err != nil {
			return nil, err
		}
		if a.sync != nil {
			if id := completed.ID(); id != "" {
				// Fire-and-forget; failure is recorded in sync state only.
				a.sync.ReportMissionComplete(ctx, id, map[string]any{"status": "completed"})
			}
		}
		return protocol.MissionCompleted{Completed: completed}, nil

	default:
		return nil, protocol.MethodNotAllowed()
	}
}

// enqueueMission appends to the tail, stamping an id when the coordinator
// supplied none so completion reports stay addressable.
func (a *Actor) enqueueMission(m protocol.Mission) {
	if m.ID() == "" {
		m["id"] = uuid.NewString()
	}
	a.state.MissionQueue = append(a.state.MissionQueue, m)
}

// POST /tactical is the latency-critical path: update position/health,
// run the decision engine, overwrite the ephemeral threat/hazard sets,
// log one event, persist, respond.
func (a *Actor) handleTactical(ctx context.Context, req *request) (any, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if req.method != http.MethodPost {
		return nil, protocol.MethodNotAllowed()
	}

	treq := decodeTacticalRequest(req.body)

	if treq.Position != nil {
		a.state.Position = *treq.Position
	}
	health := a.state.Health
	if treq.Health != nil {
		health = *treq.Health
	}
	combatScore := 0.0
	if treq.CombatScore != nil {
		combatScore = *treq.CombatScore
	}

	threats := tactical.AssessThreats(a.state.Position, treq.NearbyEntities, health, tactical.DefaultCombatScore)
	hazards := tactical.DetectHazards(a.state.Position, treq.NearbyBlocks)

	// Fresh results replace, never accumulate.
	a.state.ActiveThreats = threats
	a.state.KnownHazards = hazards
	a.state.Health = health

	decision := tactical.QuickDecision(threats, hazards, combatScore, a.state.CurrentTask)

	a.logTelemetry("tactical", map[string]any{
		"decision": decision,
		"threats":  len(threats),
		"hazards":  len(hazards),
	})
	if err := a.saveState(ctx); err != nil {
		return nil, err
	}

	if threats == nil {
		threats = []protocol.Threat{}
	}
	if hazards == nil {
		hazards = []protocol.Hazard{}
	}
	return protocol.TacticalResponse{
		Decision:  decision,
		Threats:   threats,
		Hazards:   hazards,
		Timestamp: protocol.Timestamp(a.now()),
	}, nil
}

// decodeTacticalRequest is the permissive-decode boundary: malformed input
// degrades to zero values instead of failing, keeping the no-fail guarantee
// auditable in one place.
func decodeTacticalRequest(body []byte) protocol.TacticalRequest {
	var treq protocol.TacticalRequest
	_ = json.Unmarshal(body, &treq)
	return treq
}

// POST /telemetry appends one event; GET returns buffered events filtered
// by type/since/limit plus a summary.
func (a *Actor) handleTelemetry(ctx context.Context, req *request) (any, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	switch req.method {
	case http.MethodPost:
		var body protocol.TelemetryRequest
		if err := json.Unmarshal(req.body, &body); err != nil {
			return nil, err
		}
		eventType := body.Type
		if eventType == "" {
			eventType = "unknown"
		}
		a.logTelemetry(eventType, body.Data)
		if err := a.saveState(ctx); err != nil {
			return nil, err
		}
		return protocol.TelemetryAck{Status: "logged"}, nil

	case http.MethodGet:
		var since time.Time
		if s := req.query.Get("since"); s != "" {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				since = t
			}
		}
		limit := 0
		if s := req.query.Get("limit"); s != "" {
			limit, _ = strconv.Atoi(s)
		}
		events := a.telemetry.Events(req.query.Get("type"), since, limit)
		return protocol.TelemetryEventsResponse{
			Events:  events,
			Summary: a.telemetry.Summary(),
		}, nil

	default:
		return nil, protocol.MethodNotAllowed()
	}
}

// GET /health is a liveness probe; it never triggers a state load.
func (a *Actor) handleHealth(req *request) (any, error) {
	if req.method != http.MethodGet {
		return nil, protocol.MethodNotAllowed()
	}
	agentID := "uninitialized"
	if a.state != nil {
		agentID = a.state.AgentID
	}
	resp := protocol.HealthResponse{
		Status:    "healthy",
		AgentID:   agentID,
		Timestamp: protocol.Timestamp(a.now()),
	}
	if a.sync != nil {
		st := a.sync.Status()
		resp.Sync = &st
	}
	return resp, nil
}
