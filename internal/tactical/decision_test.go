package tactical

import (
	"strings"
	"testing"

	"minewright.ai/internal/protocol"
)

func threat(typ string, danger float64, pos protocol.Position) protocol.Threat {
	return protocol.Threat{
		EntityType:      typ,
		Position:        pos,
		Distance:        Distance(protocol.Position{}, pos),
		DangerLevel:     danger,
		EstimatedHealth: 20,
	}
}

func hazard(typ string, severity float64, pos protocol.Position) protocol.Hazard {
	return protocol.Hazard{HazardType: typ, Position: pos, Severity: severity}
}

func TestQuickDecisionFatalHazardAlwaysFlees(t *testing.T) {
	h := hazard(protocol.HazardLava, 1.0, protocol.Position{X: 3, Y: 64, Z: 3})
	// A strong threat and a high combat score must not override a fatal hazard.
	th := threat("warden", 0.95, protocol.Position{X: 2, Y: 64, Z: 2})

	d := QuickDecision([]protocol.Threat{th}, []protocol.Hazard{h}, 0.9, "")
	if d.Action != protocol.ActionFlee {
		t.Fatalf("action = %q, want %q", d.Action, protocol.ActionFlee)
	}
	if d.Priority != 1.0 || d.Confidence != 1.0 {
		t.Fatalf("priority/confidence = %g/%g, want 1/1", d.Priority, d.Confidence)
	}
	if d.TargetPosition == nil {
		t.Fatal("flee decision has no target position")
	}
}

func TestQuickDecisionCriticalThreat(t *testing.T) {
	th := threat("wither", 0.8, protocol.Position{X: 4, Y: 64, Z: 0})

	d := QuickDecision([]protocol.Threat{th}, nil, 0.8, "")
	if d.Action != protocol.ActionAttack {
		t.Fatalf("capable agent: action = %q, want %q", d.Action, protocol.ActionAttack)
	}
	if d.Priority != 0.8 {
		t.Fatalf("attack priority = %g, want threat danger 0.8", d.Priority)
	}

	d = QuickDecision([]protocol.Threat{th}, nil, 0.3, "")
	if d.Action != protocol.ActionFlee {
		t.Fatalf("weak agent: action = %q, want %q", d.Action, protocol.ActionFlee)
	}
	if d.Priority != 0.9 || d.Confidence != 0.95 {
		t.Fatalf("flee priority/confidence = %g/%g, want 0.9/0.95", d.Priority, d.Confidence)
	}
}

func TestQuickDecisionModerateThreat(t *testing.T) {
	th := threat("skeleton", 0.5, protocol.Position{X: 6, Y: 64, Z: 0})

	d := QuickDecision([]protocol.Threat{th}, nil, 0.8, "")
	if d.Action != protocol.ActionAttack {
		t.Fatalf("confident agent: action = %q, want %q", d.Action, protocol.ActionAttack)
	}

	d = QuickDecision([]protocol.Threat{th}, nil, 0.5, "")
	if d.Action != protocol.ActionShield {
		t.Fatalf("cautious agent: action = %q, want %q", d.Action, protocol.ActionShield)
	}
	if d.TargetPosition != nil {
		t.Fatalf("shield decision has target position %v", d.TargetPosition)
	}
	if d.Confidence != 0.7 {
		t.Fatalf("confidence = %g, want 0.7", d.Confidence)
	}
}

func TestQuickDecisionModerateHazard(t *testing.T) {
	h := hazard(protocol.HazardFire, 0.6, protocol.Position{X: 2, Y: 64, Z: 0})

	d := QuickDecision(nil, []protocol.Hazard{h}, 0.5, "")
	if d.Action != protocol.ActionDodge {
		t.Fatalf("action = %q, want %q", d.Action, protocol.ActionDodge)
	}
	if d.Priority != 0.6 {
		t.Fatalf("dodge priority = %g, want hazard severity 0.6", d.Priority)
	}
}

func TestQuickDecisionAreaClear(t *testing.T) {
	d := QuickDecision(nil, nil, 0.5, "mine_iron")
	if d.Action != protocol.ActionHold {
		t.Fatalf("action = %q, want %q", d.Action, protocol.ActionHold)
	}
	if !strings.Contains(d.Reasoning, "mine_iron") {
		t.Fatalf("reasoning %q does not mention current mission", d.Reasoning)
	}
	if d.Priority != 0.1 || d.Confidence != 0.9 {
		t.Fatalf("priority/confidence = %g/%g, want 0.1/0.9", d.Priority, d.Confidence)
	}

	d = QuickDecision(nil, nil, 0.5, "")
	if !strings.Contains(d.Reasoning, "idle") {
		t.Fatalf("reasoning %q does not fall back to idle", d.Reasoning)
	}
}

func TestQuickDecisionLowSeverityIgnored(t *testing.T) {
	h := hazard(protocol.HazardDamage, 0.3, protocol.Position{X: 1, Y: 64, Z: 0})
	th := threat("spider", 0.35, protocol.Position{X: 8, Y: 64, Z: 0})

	d := QuickDecision([]protocol.Threat{th}, []protocol.Hazard{h}, 0.5, "explore")
	if d.Action != protocol.ActionHold {
		t.Fatalf("action = %q, want %q", d.Action, protocol.ActionHold)
	}
}

// Displacement for flee/dodge targets points away from the world origin by
// coordinate sign. Locked behavior; movement tuning depends on it.
func TestFleeDisplacementRelativeToOrigin(t *testing.T) {
	h := hazard(protocol.HazardLava, 0.9, protocol.Position{X: 10, Y: 64, Z: -7})

	d := QuickDecision(nil, []protocol.Hazard{h}, 0.5, "")
	if d.Action != protocol.ActionFlee {
		t.Fatalf("action = %q, want %q", d.Action, protocol.ActionFlee)
	}
	tp := d.TargetPosition
	if tp == nil {
		t.Fatal("no target position")
	}
	if tp.X != 5 || tp.Y != 64 || tp.Z != -2 {
		t.Fatalf("target = %s, want (5, 64, -2)", *tp)
	}

	// Zero coordinates do not displace.
	h = hazard(protocol.HazardLava, 0.9, protocol.Position{X: 0, Y: 64, Z: 0})
	d = QuickDecision(nil, []protocol.Hazard{h}, 0.5, "")
	if tp := d.TargetPosition; tp.X != 0 || tp.Z != 0 {
		t.Fatalf("target = %s, want (0, 64, 0)", *tp)
	}
}
