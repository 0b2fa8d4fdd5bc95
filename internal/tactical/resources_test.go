package tactical

import (
	"testing"

	"minewright.ai/internal/protocol"
)

func resourceAt(typ string, x, y, z float64) protocol.ResourceObs {
	return protocol.ResourceObs{Type: typ, X: x, Y: y, Z: z}
}

func TestPrioritizeResourcesMissionNeedsWin(t *testing.T) {
	agent := protocol.Position{X: 0, Y: 64, Z: 0}
	resources := []protocol.ResourceObs{
		resourceAt("oak_log", 2, 64, 0),
		resourceAt("iron_ore", 30, 64, 0),
	}

	scored := PrioritizeResources(resources, agent, map[string]int{}, []string{"iron_ore"})
	if len(scored) != 2 {
		t.Fatalf("len(scored) = %d, want 2", len(scored))
	}
	// Needed iron outranks nearby wood despite the walk.
	if scored[0].Type != "iron_ore" {
		t.Fatalf("top resource = %q, want iron_ore", scored[0].Type)
	}
}

func TestPrioritizeResourcesScarcity(t *testing.T) {
	agent := protocol.Position{X: 0, Y: 64, Z: 0}
	resources := []protocol.ResourceObs{
		resourceAt("coal", 5, 64, 0),
		resourceAt("oak_log", 5, 64, 0),
	}
	inventory := map[string]int{"coal": 9, "oak_log": 0}

	scored := PrioritizeResources(resources, agent, inventory, nil)
	if scored[0].Type != "oak_log" {
		t.Fatalf("top resource = %q, want scarce oak_log", scored[0].Type)
	}
	// Well-stocked resources score near zero but never negative.
	full := PrioritizeResources([]protocol.ResourceObs{resourceAt("coal", 40, 64, 0)}, agent, map[string]int{"coal": 64}, nil)
	if full[0].Priority != 0 {
		t.Fatalf("priority = %g, want floor 0", full[0].Priority)
	}
}

func TestPrioritizeResourcesCap(t *testing.T) {
	agent := protocol.Position{X: 0, Y: 64, Z: 0}
	var resources []protocol.ResourceObs
	for i := 0; i < 15; i++ {
		resources = append(resources, resourceAt("stone", float64(i), 64, 0))
	}

	scored := PrioritizeResources(resources, agent, map[string]int{}, nil)
	if len(scored) != 10 {
		t.Fatalf("len(scored) = %d, want 10", len(scored))
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Priority > scored[i-1].Priority {
			t.Fatalf("scored not sorted at %d", i)
		}
	}
}
