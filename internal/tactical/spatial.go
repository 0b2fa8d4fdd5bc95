package tactical

import (
	"math"

	"minewright.ai/internal/protocol"
)

// Distance is the Euclidean distance between two positions.
func Distance(a, b protocol.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}

// awayFromOrigin gives the displacement sign for flee/dodge targets: the
// sign of the coordinate relative to the world origin, not relative to the
// agent. Intentional; do not change without changing the decision contract.
func awayFromOrigin(v float64) float64 {
	switch {
	case v == 0:
		return 0
	case v > 0:
		return -1
	default:
		return 1
	}
}
