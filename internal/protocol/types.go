package protocol

import (
	"fmt"
	"time"
)

// Agent lifecycle states. Transitions are driven by the game client /
// coordinator through the sync endpoint; the actor never flips these on
// its own.
const (
	StatusIdle      = "idle"
	StatusPlanning  = "planning"
	StatusExecuting = "executing"
	StatusWaiting   = "waiting"
	StatusCombat    = "combat"
	StatusError     = "error"
)

// Tactical actions produced by the decision cascade.
const (
	ActionFlee   = "flee"
	ActionAttack = "attack"
	ActionShield = "shield"
	ActionDodge  = "dodge"
	ActionHold   = "hold"
)

// Hazard categories.
const (
	HazardLava        = "lava"
	HazardFire        = "fire"
	HazardDamage      = "damage"
	HazardFall        = "fall"
	HazardSuffocation = "suffocation"
)

// Position is a 3D point in world coordinates. Value type, structural
// equality.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Threat is a ranked combat threat. Recomputed on every tactical call,
// never merged across calls.
type Threat struct {
	EntityType      string   `json:"entityType"`
	Position        Position `json:"position"`
	Distance        float64  `json:"distance"`
	DangerLevel     float64  `json:"dangerLevel"`
	EstimatedHealth int      `json:"estimatedHealth"`
}

// Hazard is a ranked environmental hazard. Same ephemeral lifecycle as
// Threat.
type Hazard struct {
	HazardType string   `json:"hazardType"`
	Position   Position `json:"position"`
	Severity   float64  `json:"severity"`
}

// TacticalDecision is the single action selected by the decision cascade.
// Immutable once produced.
type TacticalDecision struct {
	Action         string    `json:"action"`
	Priority       float64   `json:"priority"`
	Reasoning      string    `json:"reasoning"`
	TargetPosition *Position `json:"targetPosition,omitempty"`
	Confidence     float64   `json:"confidence"`
}

// Mission is an opaque work order from the coordinator. The reflex layer
// queues and returns missions without interpreting them beyond the id.
type Mission map[string]any

// ID returns the mission's id field, if any.
func (m Mission) ID() string {
	if m == nil {
		return ""
	}
	id, _ := m["id"].(string)
	return id
}

// TelemetryEvent is one buffered agent event. The same shape is used in
// persisted state and on the coordinator wire.
type TelemetryEvent struct {
	EventType string         `json:"eventType"`
	Timestamp string         `json:"timestamp"`
	AgentID   string         `json:"agentId"`
	Data      map[string]any `json:"data"`
}

// AgentState is the durable per-agent aggregate, keyed by AgentID.
type AgentState struct {
	AgentID         string           `json:"agentId"`
	Status          string           `json:"status"`
	Position        Position         `json:"position"`
	Health          int              `json:"health"`
	Hunger          int              `json:"hunger"`
	CurrentTask     string           `json:"currentTask,omitempty"`
	InventorySlots  int              `json:"inventorySlots"`
	LastActive      string           `json:"lastActive"`
	ActiveThreats   []Threat         `json:"activeThreats"`
	KnownHazards    []Hazard         `json:"knownHazards"`
	MissionQueue    []Mission        `json:"missionQueue"`
	TelemetryEvents []TelemetryEvent `json:"telemetryEvents"`
}

// StatePatch is a partial state update: only non-nil fields overwrite the
// corresponding state fields. An attached Mission is appended to the queue.
type StatePatch struct {
	Position    *Position `json:"position,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Health      *int      `json:"health,omitempty"`
	Hunger      *int      `json:"hunger,omitempty"`
	CurrentTask *string   `json:"currentTask,omitempty"`
	Mission     Mission   `json:"mission,omitempty"`
}

// EntityObs is a sensed entity as reported by the game client. Decoding is
// permissive: absent coordinates read as 0 and an absent health as 20, so
// malformed input degrades instead of failing (the caller is a trusted,
// latency-sensitive sibling).
type EntityObs struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Health *int    `json:"health,omitempty"`
}

func (e EntityObs) Pos() Position { return Position{X: e.X, Y: e.Y, Z: e.Z} }

// EstimatedHealth applies the permissive default for a missing health field.
func (e EntityObs) EstimatedHealth() int {
	if e.Health == nil {
		return 20
	}
	return *e.Health
}

// BlockObs is a sensed block.
type BlockObs struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Solid bool    `json:"solid"`
}

func (b BlockObs) Pos() Position { return Position{X: b.X, Y: b.Y, Z: b.Z} }

// ResourceObs is a sensed resource block considered for gathering.
type ResourceObs struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

func (r ResourceObs) Pos() Position { return Position{X: r.X, Y: r.Y, Z: r.Z} }

// ScoredResource is a resource annotated with its gathering priority.
type ScoredResource struct {
	ResourceObs
	Priority float64 `json:"priority"`
	Distance float64 `json:"distance"`
}

// Timestamp renders t in the sortable wire format used everywhere in this
// service.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
