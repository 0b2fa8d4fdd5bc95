package tactical

import (
	"sort"

	"minewright.ai/internal/protocol"
)

const maxResources = 10

// PrioritizeResources scores nearby resources against mission needs and
// current inventory. Top maxResources are returned, highest priority first;
// ties keep input order.
func PrioritizeResources(resources []protocol.ResourceObs, agentPos protocol.Position, inventory map[string]int, missionNeeds []string) []protocol.ScoredResource {
	needed := make(map[string]bool, len(missionNeeds))
	for _, n := range missionNeeds {
		needed[n] = true
	}

	scored := make([]protocol.ScoredResource, 0, len(resources))
	for _, r := range resources {
		dist := Distance(agentPos, r.Pos())
		scored = append(scored, protocol.ScoredResource{
			ResourceObs: r,
			Priority:    resourcePriority(r.Type, dist, inventory, needed),
			Distance:    dist,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority > scored[j].Priority
	})
	if len(scored) > maxResources {
		scored = scored[:maxResources]
	}
	return scored
}

// resourcePriority favors mission-needed resources, scarce inventory, and
// short walks: 10 for a mission need, up to 5 for scarcity, minus 0.1 per
// block of distance, floored at 0.
func resourcePriority(resourceType string, distance float64, inventory map[string]int, needed map[string]bool) float64 {
	priority := 0.0
	if needed[resourceType] {
		priority += 10.0
	}
	if count := inventory[resourceType]; count < 10 {
		priority += float64(10-count) * 0.5
	}
	priority -= distance * 0.1
	if priority < 0 {
		priority = 0
	}
	return priority
}
