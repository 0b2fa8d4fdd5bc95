package tactical

import (
	"fmt"

	"minewright.ai/internal/protocol"
)

// Severity/danger thresholds for the decision cascade.
const (
	fatalHazardSeverity    = 0.8
	criticalThreatDanger   = 0.7
	moderateThreatDanger   = 0.4
	moderateHazardSeverity = 0.4

	engageCombatScore    = 0.6
	confidentCombatScore = 0.7
)

// QuickDecision selects exactly one action from ranked threats and hazards.
// The rules form a strict priority cascade; the first matching rule wins and
// the ordering is the core policy. Inputs are expected to be pre-sorted by
// AssessThreats/DetectHazards.
func QuickDecision(threats []protocol.Threat, hazards []protocol.Hazard, combatScore float64, currentMission string) protocol.TacticalDecision {
	// 1. Fatal hazards: get out, no matter what else is nearby.
	for _, h := range hazards {
		if h.Severity > fatalHazardSeverity {
			return fleeFromHazard(h)
		}
	}

	// 2. Critical threats: fight only when clearly capable.
	for _, t := range threats {
		if t.DangerLevel > criticalThreatDanger {
			if combatScore > engageCombatScore {
				return combatDecision(t)
			}
			return fleeFromThreat(t)
		}
	}

	// 3. Moderate top threat: engage or hold, never run.
	if len(threats) > 0 && threats[0].DangerLevel > moderateThreatDanger {
		if combatScore > confidentCombatScore {
			return combatDecision(threats[0])
		}
		return holdPosition(threats[0])
	}

	// 4. Moderate hazards: step aside.
	for _, h := range hazards {
		if h.Severity > moderateHazardSeverity {
			return avoidHazard(h)
		}
	}

	// 5. Area clear.
	return continueMission(currentMission)
}

func fleeFromHazard(h protocol.Hazard) protocol.TacticalDecision {
	dx := awayFromOrigin(h.Position.X)
	dz := awayFromOrigin(h.Position.Z)
	return protocol.TacticalDecision{
		Action:    protocol.ActionFlee,
		Priority:  1.0,
		Reasoning: fmt.Sprintf("FATAL HAZARD: %s at %s", h.HazardType, h.Position),
		TargetPosition: &protocol.Position{
			X: h.Position.X + dx*5,
			Y: h.Position.Y,
			Z: h.Position.Z + dz*5,
		},
		Confidence: 1.0,
	}
}

func fleeFromThreat(t protocol.Threat) protocol.TacticalDecision {
	dx := awayFromOrigin(t.Position.X)
	dz := awayFromOrigin(t.Position.Z)
	return protocol.TacticalDecision{
		Action:    protocol.ActionFlee,
		Priority:  0.9,
		Reasoning: fmt.Sprintf("DANGER: %s (%.1f blocks)", t.EntityType, t.Distance),
		TargetPosition: &protocol.Position{
			X: t.Position.X + dx*10,
			Y: t.Position.Y,
			Z: t.Position.Z + dz*10,
		},
		Confidence: 0.95,
	}
}

func combatDecision(t protocol.Threat) protocol.TacticalDecision {
	// Close to striking range.
	dx := awayFromOrigin(t.Position.X)
	dz := awayFromOrigin(t.Position.Z)
	return protocol.TacticalDecision{
		Action:    protocol.ActionAttack,
		Priority:  t.DangerLevel,
		Reasoning: fmt.Sprintf("ENGAGE: %s at %.1f blocks", t.EntityType, t.Distance),
		TargetPosition: &protocol.Position{
			X: t.Position.X + dx*2,
			Y: t.Position.Y,
			Z: t.Position.Z + dz*2,
		},
		Confidence: 0.8,
	}
}

func holdPosition(t protocol.Threat) protocol.TacticalDecision {
	return protocol.TacticalDecision{
		Action:     protocol.ActionShield,
		Priority:   t.DangerLevel,
		Reasoning:  fmt.Sprintf("CAUTION: %s detected - hold and observe", t.EntityType),
		Confidence: 0.7,
	}
}

func avoidHazard(h protocol.Hazard) protocol.TacticalDecision {
	dx := awayFromOrigin(h.Position.X)
	dz := awayFromOrigin(h.Position.Z)
	return protocol.TacticalDecision{
		Action:    protocol.ActionDodge,
		Priority:  h.Severity,
		Reasoning: fmt.Sprintf("AVOID: %s nearby", h.HazardType),
		TargetPosition: &protocol.Position{
			X: h.Position.X + dx*3,
			Y: h.Position.Y,
			Z: h.Position.Z + dz*3,
		},
		Confidence: 0.8,
	}
}

func continueMission(currentMission string) protocol.TacticalDecision {
	if currentMission == "" {
		currentMission = "idle"
	}
	return protocol.TacticalDecision{
		Action:     protocol.ActionHold,
		Priority:   0.1,
		Reasoning:  "Area clear - continue mission: " + currentMission,
		Confidence: 0.9,
	}
}
