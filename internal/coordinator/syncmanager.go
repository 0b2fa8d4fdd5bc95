package coordinator

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"minewright.ai/internal/protocol"
)

const (
	// DefaultSyncInterval is the minimum spacing between state syncs.
	DefaultSyncInterval = 5 * time.Second

	// maxPendingUpdates caps the failed-sync retry buffer; oldest entries
	// are evicted first.
	maxPendingUpdates = 10

	missionPullLimit = 10
)

// SyncManager tracks one agent's sync health and drives its coordinator
// exchanges. Owned by the agent's actor, so it is never used concurrently.
type SyncManager struct {
	client   *Client
	agentID  string
	interval time.Duration
	now      func() time.Time

	lastSync    time.Time
	lastSuccess bool
	failures    int
	lastError   string
	pending     []protocol.PendingUpdate
}

func NewSyncManager(client *Client, agentID string, interval time.Duration) *SyncManager {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &SyncManager{
		client:      client,
		agentID:     agentID,
		interval:    interval,
		now:         time.Now,
		lastSuccess: true,
	}
}

// ShouldSync reports whether enough time has passed since the last sync
// attempt (always true before the first one).
func (s *SyncManager) ShouldSync() bool {
	if s.lastSync.IsZero() {
		return true
	}
	return s.now().Sub(s.lastSync) >= s.interval
}

// SyncState pushes the agent's state plus any buffered pending updates.
// On success the retry buffer and failure count reset; on failure the
// snapshot is buffered for retry and the error is returned — sync failures
// are never silently swallowed at this layer.
func (s *SyncManager) SyncState(ctx context.Context, state protocol.AgentState) (protocol.StateSyncResponse, error) {
	s.lastSync = s.now()

	payload := protocol.StateSyncPayload{
		AgentID:        s.agentID,
		Timestamp:      protocol.Timestamp(s.now()),
		State:          state,
		PendingUpdates: s.pendingSnapshot(),
	}

	var resp protocol.StateSyncResponse
	if err := s.client.postJSON(ctx, "/api/agents/sync", payload, &resp); err != nil {
		s.lastSuccess = false
		s.failures++
		s.lastError = err.Error()
		s.bufferPending(protocol.PendingUpdate{
			Timestamp: protocol.Timestamp(s.now()),
			State:     state,
		})
		return protocol.StateSyncResponse{}, fmt.Errorf("sync state: %w", err)
	}

	s.pending = nil
	s.lastSuccess = true
	s.failures = 0
	s.lastError = ""
	return resp, nil
}

// GetMissions pulls assigned missions. Soft failure: an unreachable
// coordinator yields an empty list and a recorded error, never an error
// that could block the agent.
func (s *SyncManager) GetMissions(ctx context.Context) []protocol.Mission {
	q := url.Values{}
	q.Set("agentId", s.agentID)
	q.Set("limit", strconv.Itoa(missionPullLimit))

	var resp protocol.MissionPullResponse
	if err := s.client.getJSON(ctx, "/api/agents/missions", q, &resp); err != nil {
		s.lastError = err.Error()
		return nil
	}
	return resp.Missions
}

// SendTelemetry pushes buffered events. Best effort; reports success.
func (s *SyncManager) SendTelemetry(ctx context.Context, events []protocol.TelemetryEvent) bool {
	if len(events) == 0 {
		return true
	}
	payload := protocol.TelemetryPayload{AgentID: s.agentID, Events: events}
	if err := s.client.postJSON(ctx, "/api/agents/telemetry", payload, nil); err != nil {
		s.lastError = err.Error()
		return false
	}
	return true
}

// SendHeartbeat is a fire-and-forget keep-alive.
func (s *SyncManager) SendHeartbeat(ctx context.Context) bool {
	payload := protocol.HeartbeatPayload{
		AgentID:   s.agentID,
		Timestamp: protocol.Timestamp(s.now()),
		Status:    "alive",
	}
	if err := s.client.postJSON(ctx, "/api/agents/heartbeat", payload, nil); err != nil {
		s.lastError = err.Error()
		return false
	}
	return true
}

// ReportMissionComplete notifies the coordinator of a finished mission.
func (s *SyncManager) ReportMissionComplete(ctx context.Context, missionID string, result map[string]any) bool {
	payload := protocol.MissionReportPayload{
		AgentID:   s.agentID,
		MissionID: missionID,
		Timestamp: protocol.Timestamp(s.now()),
		Result:    result,
	}
	if err := s.client.postJSON(ctx, "/api/agents/missions/complete", payload, nil); err != nil {
		s.lastError = err.Error()
		return false
	}
	return true
}

// ReportMissionFailed notifies the coordinator of a failed mission.
func (s *SyncManager) ReportMissionFailed(ctx context.Context, missionID, errMsg string) bool {
	payload := protocol.MissionReportPayload{
		AgentID:   s.agentID,
		MissionID: missionID,
		Timestamp: protocol.Timestamp(s.now()),
		Error:     errMsg,
	}
	if err := s.client.postJSON(ctx, "/api/agents/missions/failed", payload, nil); err != nil {
		s.lastError = err.Error()
		return false
	}
	return true
}

// Status is the sync-health view for the health probe.
func (s *SyncManager) Status() protocol.SyncStatus {
	st := protocol.SyncStatus{
		LastSuccess:    s.lastSuccess,
		Failures:       s.failures,
		LastError:      s.lastError,
		PendingUpdates: len(s.pending),
	}
	if !s.lastSync.IsZero() {
		st.LastSync = protocol.Timestamp(s.lastSync)
	}
	return st
}

func (s *SyncManager) bufferPending(u protocol.PendingUpdate) {
	s.pending = append(s.pending, u)
	if len(s.pending) > maxPendingUpdates {
		s.pending = s.pending[len(s.pending)-maxPendingUpdates:]
	}
}

func (s *SyncManager) pendingSnapshot() []protocol.PendingUpdate {
	if len(s.pending) == 0 {
		return []protocol.PendingUpdate{}
	}
	return append([]protocol.PendingUpdate(nil), s.pending...)
}

// TelemetryBuffer is the actor-owned event buffer drained by the periodic
// sync. Events are cleared only after a confirmed send.
type TelemetryBuffer interface {
	Pending() []protocol.TelemetryEvent
	Clear()
}

// SyncResult reports what a periodic sync cycle accomplished.
type SyncResult struct {
	Synced        bool
	Missions      []protocol.Mission
	ConfigUpdates map[string]any
	TelemetrySent bool
}

// PerformPeriodicSync runs one full exchange: state push, mission pull,
// and — only if events are pending — a telemetry push that clears the
// buffer on confirmed success. A state-sync failure aborts the cycle and
// surfaces the error to the caller.
func PerformPeriodicSync(ctx context.Context, sm *SyncManager, state protocol.AgentState, buf TelemetryBuffer) (SyncResult, error) {
	var res SyncResult
	if !sm.ShouldSync() {
		return res, nil
	}

	resp, err := sm.SyncState(ctx, state)
	if err != nil {
		return res, err
	}
	res.Synced = true
	res.Missions = resp.Missions
	res.ConfigUpdates = resp.ConfigUpdates

	if missions := sm.GetMissions(ctx); len(missions) > 0 {
		res.Missions = append(res.Missions, missions...)
	}

	if events := buf.Pending(); len(events) > 0 {
		res.TelemetrySent = sm.SendTelemetry(ctx, events)
		if res.TelemetrySent {
			buf.Clear()
		}
	}
	return res, nil
}
