// Package tactical is the reflex decision engine: it turns raw sensed
// entities and blocks into ranked threats/hazards and a single actionable
// decision. Everything here is pure and deterministic; malformed input
// degrades to defaults instead of failing, because the caller is a trusted
// sibling on a tight latency budget.
package tactical

import (
	"sort"

	"minewright.ai/internal/protocol"
)

// DefaultCombatScore is used for threat assessment when the caller does not
// supply an explicit capability score.
const DefaultCombatScore = 0.5

const (
	maxThreats      = 5
	threatThreshold = 0.3
)

// AssessThreats ranks nearby entities by danger. At most maxThreats are
// returned, sorted non-increasing by danger level; entities below
// threatThreshold are discarded. Ties keep input order (stable sort).
func AssessThreats(agentPos protocol.Position, entities []protocol.EntityObs, currentHealth int, combatScore float64) []protocol.Threat {
	threats := make([]protocol.Threat, 0, len(entities))

	for _, e := range entities {
		entityType := e.Type
		if entityType == "" {
			entityType = "unknown"
		}

		dist := Distance(agentPos, e.Pos())
		base, ok := entityDangerRatings[entityType]
		if !ok {
			base = unknownEntityDanger
		}

		danger := DangerLevel(base, dist, currentHealth, combatScore)
		if danger < threatThreshold {
			continue
		}

		threats = append(threats, protocol.Threat{
			EntityType:      entityType,
			Position:        e.Pos(),
			Distance:        dist,
			DangerLevel:     danger,
			EstimatedHealth: e.EstimatedHealth(),
		})
	}

	sort.SliceStable(threats, func(i, j int) bool {
		return threats[i].DangerLevel > threats[j].DangerLevel
	})
	if len(threats) > maxThreats {
		threats = threats[:maxThreats]
	}
	return threats
}

// DangerLevel combines the base entity rating with distance, agent health,
// and combat capability into a normalized [0,1] score.
func DangerLevel(baseDanger, distance float64, agentHealth int, combatScore float64) float64 {
	// <5 blocks is very dangerous, >20 blocks barely registers.
	distanceFactor := 0.0
	if f := 1.0 - distance/20.0; f > 0 {
		distanceFactor = f
	}

	healthFactor := 1.0
	switch {
	case agentHealth < 5:
		healthFactor = 2.0
	case agentHealth < 10:
		healthFactor = 1.5
	case agentHealth > 15:
		healthFactor = 0.8
	}

	combatFactor := 1.0 - combatScore*0.5
	if combatFactor < 0.5 {
		combatFactor = 0.5
	}

	return clamp01(baseDanger * distanceFactor * healthFactor * combatFactor / 10.0)
}
