package protocol

// Request/response bodies for the actor HTTP surface, plus the payloads
// exchanged with the coordinator. Field names are the wire contract; keep
// them camelCase.

// POST /agents/{id}/sync
type SyncAck struct {
	Status    string `json:"status"`
	AgentID   string `json:"agentId"`
	Timestamp string `json:"timestamp"`
}

// GET /agents/{id}/mission
type MissionList struct {
	AgentID  string    `json:"agentId"`
	Missions []Mission `json:"missions"`
	Current  string    `json:"current,omitempty"`
}

// POST /agents/{id}/mission
type MissionQueueRequest struct {
	Mission Mission `json:"mission"`
}

type MissionQueued struct {
	Status      string `json:"status"`
	QueueLength int    `json:"queueLength"`
}

// DELETE /agents/{id}/mission
type MissionCompleted struct {
	Completed Mission `json:"completed"`
}

// POST /agents/{id}/tactical
type TacticalRequest struct {
	Position       *Position     `json:"position,omitempty"`
	NearbyEntities []EntityObs   `json:"nearbyEntities"`
	NearbyBlocks   []BlockObs    `json:"nearbyBlocks"`
	Health         *int          `json:"health,omitempty"`
	CombatScore    *float64      `json:"combatScore,omitempty"`
	Resources      []ResourceObs `json:"nearbyResources,omitempty"`
}

type TacticalResponse struct {
	Decision  TacticalDecision `json:"decision"`
	Threats   []Threat         `json:"threats"`
	Hazards   []Hazard         `json:"hazards"`
	Timestamp string           `json:"timestamp"`
}

// POST /agents/{id}/telemetry
type TelemetryRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type TelemetryAck struct {
	Status string `json:"status"`
}

// GET /agents/{id}/telemetry
type TelemetryEventsResponse struct {
	Events  []TelemetryEvent `json:"events"`
	Summary TelemetrySummary `json:"summary"`
}

type TelemetrySummary struct {
	TotalEvents int            `json:"totalEvents"`
	EventTypes  map[string]int `json:"eventTypes"`
	OldestEvent string         `json:"oldestEvent,omitempty"`
	NewestEvent string         `json:"newestEvent,omitempty"`
}

// GET /agents/{id}/health
type HealthResponse struct {
	Status    string      `json:"status"`
	AgentID   string      `json:"agentId"`
	Timestamp string      `json:"timestamp"`
	Sync      *SyncStatus `json:"sync,omitempty"`
}

// SyncStatus is the sync-health view surfaced on the health probe.
type SyncStatus struct {
	LastSync       string `json:"lastSync,omitempty"`
	LastSuccess    bool   `json:"lastSuccess"`
	Failures       int    `json:"failures"`
	LastError      string `json:"lastError,omitempty"`
	PendingUpdates int    `json:"pendingUpdates"`
}

// Coordinator wire payloads (outbound).

type StateSyncPayload struct {
	AgentID        string          `json:"agentId"`
	Timestamp      string          `json:"timestamp"`
	State          AgentState      `json:"state"`
	PendingUpdates []PendingUpdate `json:"pendingUpdates"`
}

// PendingUpdate is a buffered failed-sync snapshot awaiting retry.
type PendingUpdate struct {
	Timestamp string     `json:"timestamp"`
	State     AgentState `json:"state"`
}

type MissionPullRequest struct {
	AgentID string `json:"agentId"`
	Limit   int    `json:"limit"`
}

type TelemetryPayload struct {
	AgentID string           `json:"agentId"`
	Events  []TelemetryEvent `json:"events"`
}

type HeartbeatPayload struct {
	AgentID   string `json:"agentId"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

type MissionReportPayload struct {
	AgentID   string         `json:"agentId"`
	MissionID string         `json:"missionId"`
	Timestamp string         `json:"timestamp"`
	Result    map[string]any `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Coordinator wire payloads (inbound).

type StateSyncResponse struct {
	Status        string         `json:"status"`
	Missions      []Mission      `json:"missions"`
	ConfigUpdates map[string]any `json:"configUpdates"`
}

type MissionPullResponse struct {
	Missions []Mission `json:"missions"`
}

// ErrorResponse is the JSON body returned on any request-path failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
