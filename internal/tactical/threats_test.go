package tactical

import (
	"testing"

	"minewright.ai/internal/protocol"
)

func entityAt(typ string, x, y, z float64) protocol.EntityObs {
	return protocol.EntityObs{Type: typ, X: x, Y: y, Z: z}
}

func TestAssessThreatsCapAndOrder(t *testing.T) {
	origin := protocol.Position{X: 0, Y: 64, Z: 0}
	var entities []protocol.EntityObs
	for i := 1; i <= 7; i++ {
		entities = append(entities, entityAt("warden", float64(i), 64, 0))
	}

	threats := AssessThreats(origin, entities, 20, DefaultCombatScore)
	if len(threats) != 5 {
		t.Fatalf("len(threats) = %d, want 5", len(threats))
	}
	for i := 1; i < len(threats); i++ {
		if threats[i].DangerLevel > threats[i-1].DangerLevel {
			t.Fatalf("threats not sorted: [%d]=%.3f > [%d]=%.3f",
				i, threats[i].DangerLevel, i-1, threats[i-1].DangerLevel)
		}
	}
	// Nearest warden ranks first.
	if threats[0].Distance != 1 {
		t.Fatalf("top threat distance = %g, want 1", threats[0].Distance)
	}
}

func TestAssessThreatsFiltersLowDanger(t *testing.T) {
	origin := protocol.Position{X: 0, Y: 64, Z: 0}
	entities := []protocol.EntityObs{
		entityAt("villager", 2, 64, 0),
		entityAt("animal", 3, 64, 0),
		entityAt("zombie", 18, 64, 0),
	}

	threats := AssessThreats(origin, entities, 20, DefaultCombatScore)
	if len(threats) != 0 {
		t.Fatalf("expected no threats, got %d (%+v)", len(threats), threats)
	}
}

func TestAssessThreatsUnknownEntityType(t *testing.T) {
	origin := protocol.Position{X: 0, Y: 64, Z: 0}
	entities := []protocol.EntityObs{entityAt("", 0, 64, 0), entityAt("mystery_mob", 0, 64, 0)}

	// Unrecognized entities rate 1.0 base, which even point-blank at
	// critical health stays below the threat threshold.
	threats := AssessThreats(origin, entities, 3, 0.0)
	if len(threats) != 0 {
		t.Fatalf("expected unknown entities filtered, got %d (%+v)", len(threats), threats)
	}
}

func TestDangerLevelIncreasesAsHealthDrops(t *testing.T) {
	healthy := DangerLevel(4.0, 5, 20, DefaultCombatScore)
	wounded := DangerLevel(4.0, 5, 3, DefaultCombatScore)
	if wounded <= healthy {
		t.Fatalf("danger at health 3 (%.3f) not greater than at health 20 (%.3f)", wounded, healthy)
	}
}

func TestDangerLevelDistanceFalloff(t *testing.T) {
	near := DangerLevel(10.0, 2, 20, DefaultCombatScore)
	far := DangerLevel(10.0, 15, 20, DefaultCombatScore)
	beyond := DangerLevel(10.0, 25, 20, DefaultCombatScore)
	if far >= near {
		t.Fatalf("danger at 15 blocks (%.3f) not less than at 2 blocks (%.3f)", far, near)
	}
	if beyond != 0 {
		t.Fatalf("danger beyond 20 blocks = %.3f, want 0", beyond)
	}
}

func TestDangerLevelCombatScoreFloor(t *testing.T) {
	// combatScore 1.0 and 2.0 both bottom out at the 0.5 factor floor.
	if got, want := DangerLevel(10.0, 5, 12, 1.0), DangerLevel(10.0, 5, 12, 2.0); got != want {
		t.Fatalf("combat factor floor: %.3f != %.3f", got, want)
	}
}

func TestDangerLevelClamped(t *testing.T) {
	// Warden point-blank with critical health would exceed 1.0 unclamped.
	if got := DangerLevel(10.0, 0, 3, 0.0); got != 1.0 {
		t.Fatalf("danger = %.3f, want clamped to 1.0", got)
	}
}

func TestEstimatedHealthDefault(t *testing.T) {
	origin := protocol.Position{X: 0, Y: 64, Z: 0}
	threats := AssessThreats(origin, []protocol.EntityObs{entityAt("warden", 1, 64, 0)}, 20, DefaultCombatScore)
	if len(threats) != 1 {
		t.Fatalf("len(threats) = %d, want 1", len(threats))
	}
	if threats[0].EstimatedHealth != 20 {
		t.Fatalf("estimatedHealth = %d, want default 20", threats[0].EstimatedHealth)
	}
}
