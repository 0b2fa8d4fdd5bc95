package tactical

import "minewright.ai/internal/protocol"

const avoidanceDistance = 5.0

// AdjustPathForThreats drops waypoints that pass within avoidanceDistance
// of a significant threat (danger > 0.5) or hazard (severity > 0.4). If
// filtering removes every waypoint, the original destination is kept as a
// single-element path.
func AdjustPathForThreats(path []protocol.Position, threats []protocol.Threat, hazards []protocol.Hazard) []protocol.Position {
	if len(path) == 0 {
		return path
	}

	adjusted := make([]protocol.Position, 0, len(path))
	for _, wp := range path {
		if waypointDangerous(wp, threats, hazards) {
			continue
		}
		adjusted = append(adjusted, wp)
	}

	if len(adjusted) == 0 {
		adjusted = append(adjusted, path[len(path)-1])
	}
	return adjusted
}

func waypointDangerous(wp protocol.Position, threats []protocol.Threat, hazards []protocol.Hazard) bool {
	for _, t := range threats {
		if t.DangerLevel > 0.5 && Distance(wp, t.Position) < avoidanceDistance {
			return true
		}
	}
	for _, h := range hazards {
		if h.Severity > 0.4 && Distance(wp, h.Position) < avoidanceDistance {
			return true
		}
	}
	return false
}
