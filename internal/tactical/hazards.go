package tactical

import (
	"math"
	"sort"

	"minewright.ai/internal/protocol"
)

const maxHazards = 5

// DetectHazards scans nearby blocks for environmental dangers: open drops
// below the agent, solid blocks at head level, and hazardous materials
// within their effect radius. At most maxHazards are returned, sorted
// non-increasing by severity.
func DetectHazards(agentPos protocol.Position, blocks []protocol.BlockObs) []protocol.Hazard {
	var hazards []protocol.Hazard

	// Fall hazard: blocks reported strictly below the feet with no solid
	// ground among them.
	below := 0
	solidBelow := 0
	for _, b := range blocks {
		if b.Y < agentPos.Y-1 {
			below++
			if b.Solid {
				solidBelow++
			}
		}
	}
	if below > 5 && solidBelow == 0 {
		// 10+ empty blocks reads as a fatal drop.
		severity := math.Min(1.0, float64(below)/10.0)
		hazards = append(hazards, protocol.Hazard{
			HazardType: protocol.HazardFall,
			Position:   protocol.Position{X: agentPos.X, Y: agentPos.Y - 1, Z: agentPos.Z},
			Severity:   severity,
		})
	}

	// Suffocation hazard: a solid block occupying the head cell.
	for _, b := range blocks {
		if b.Solid &&
			math.Abs(b.Y-agentPos.Y-1) < 0.5 &&
			math.Abs(b.X-agentPos.X) < 0.5 &&
			math.Abs(b.Z-agentPos.Z) < 0.5 {
			hazards = append(hazards, protocol.Hazard{
				HazardType: protocol.HazardSuffocation,
				Position:   protocol.Position{X: agentPos.X, Y: agentPos.Y + 1, Z: agentPos.Z},
				Severity:   0.9,
			})
			break
		}
	}

	// Material hazards: severity falls off linearly over the block's radius.
	for _, b := range blocks {
		info, ok := hazardousBlocks[b.Type]
		if !ok {
			continue
		}
		dist := Distance(agentPos, b.Pos())
		if dist > info.Radius {
			continue
		}
		severity := info.BaseSeverity
		if info.Radius > 0 {
			severity = info.BaseSeverity * (1.0 - dist/info.Radius)
		}
		hazards = append(hazards, protocol.Hazard{
			HazardType: info.HazardType,
			Position:   b.Pos(),
			Severity:   severity,
		})
	}

	sort.SliceStable(hazards, func(i, j int) bool {
		return hazards[i].Severity > hazards[j].Severity
	})
	if len(hazards) > maxHazards {
		hazards = hazards[:maxHazards]
	}
	return hazards
}
