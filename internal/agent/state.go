package agent

import (
	"time"

	"minewright.ai/internal/protocol"
)

// newState initializes a fresh agent at the default spawn. agentId is fixed
// here and never changes afterwards.
func newState(agentID string, now time.Time) *protocol.AgentState {
	return &protocol.AgentState{
		AgentID:        agentID,
		Status:         protocol.StatusIdle,
		Position:       protocol.Position{X: 0, Y: 64, Z: 0},
		Health:         20,
		Hunger:         20,
		InventorySlots: 36,
		LastActive:     protocol.Timestamp(now),
	}
}

// applyPatch overwrites only the fields present in the patch. Health and
// hunger are taken as supplied; physical-bounds validation is the caller's
// job, not the actor's.
func applyPatch(st *protocol.AgentState, patch protocol.StatePatch) {
	if patch.Position != nil {
		st.Position = *patch.Position
	}
	if patch.Status != nil {
		st.Status = *patch.Status
	}
	if patch.Health != nil {
		st.Health = *patch.Health
	}
	if patch.Hunger != nil {
		st.Hunger = *patch.Hunger
	}
	if patch.CurrentTask != nil {
		st.CurrentTask = *patch.CurrentTask
	}
}
