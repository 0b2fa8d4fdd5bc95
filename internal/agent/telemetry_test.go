package agent

import (
	"fmt"
	"testing"
	"time"

	"minewright.ai/internal/protocol"
)

func eventN(n int, eventType string, base time.Time) protocol.TelemetryEvent {
	return protocol.TelemetryEvent{
		EventType: eventType,
		Timestamp: protocol.Timestamp(base.Add(time.Duration(n) * time.Second)),
		AgentID:   "bob",
		Data:      map[string]any{"n": n},
	}
}

func TestTelemetryRingEvictsOldest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewTelemetryRing(5)
	for i := 0; i < 8; i++ {
		r.Append(eventN(i, "tick", base))
	}

	if r.Len() != 5 {
		t.Fatalf("Len = %d, want 5", r.Len())
	}
	snap := r.Snapshot()
	for i, e := range snap {
		if want := i + 3; e.Data["n"] != want {
			t.Fatalf("snapshot[%d].n = %v, want %d (oldest evicted first)", i, e.Data["n"], want)
		}
	}
}

func TestTelemetryRingRestoreTruncates(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var events []protocol.TelemetryEvent
	for i := 0; i < 10; i++ {
		events = append(events, eventN(i, "tick", base))
	}

	r := NewTelemetryRing(4)
	r.Restore(events)
	if r.Len() != 4 {
		t.Fatalf("Len = %d, want 4", r.Len())
	}
	if got := r.Snapshot()[0].Data["n"]; got != 6 {
		t.Fatalf("oldest kept n = %v, want 6", got)
	}
}

func TestTelemetryRingClearBefore(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewTelemetryRing(10)
	for i := 0; i < 6; i++ {
		r.Append(eventN(i, "tick", base))
	}

	removed := r.ClearBefore(base.Add(3 * time.Second))
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}

	// Unparsable timestamps survive a cutoff.
	r.Append(protocol.TelemetryEvent{EventType: "odd", Timestamp: "not-a-time"})
	if removed := r.ClearBefore(base.Add(time.Hour)); removed != 3 {
		t.Fatalf("removed = %d, want 3 (malformed timestamp kept)", removed)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}
}

func TestTelemetryRingEventsFilterAndOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewTelemetryRing(20)
	for i := 0; i < 6; i++ {
		typ := "tactical"
		if i%2 == 0 {
			typ = "error"
		}
		r.Append(eventN(i, typ, base))
	}

	got := r.Events("tactical", time.Time{}, 0)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].Data["n"] != 5 || got[2].Data["n"] != 1 {
		t.Fatalf("order = [%v %v %v], want [5 3 1]", got[0].Data["n"], got[1].Data["n"], got[2].Data["n"])
	}

	got = r.Events("", base.Add(4*time.Second), 0)
	if len(got) != 2 {
		t.Fatalf("since filter: len = %d, want 2", len(got))
	}

	got = r.Events("", time.Time{}, 2)
	if len(got) != 2 || got[0].Data["n"] != 5 {
		t.Fatalf("limit: len = %d, newest n = %v", len(got), got[0].Data["n"])
	}
}

func TestTelemetryRingSummary(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewTelemetryRing(10)

	empty := r.Summary()
	if empty.TotalEvents != 0 || empty.OldestEvent != "" {
		t.Fatalf("empty summary = %+v", empty)
	}

	for i := 0; i < 4; i++ {
		typ := fmt.Sprintf("t%d", i%2)
		r.Append(eventN(i, typ, base))
	}
	sum := r.Summary()
	if sum.TotalEvents != 4 {
		t.Fatalf("totalEvents = %d, want 4", sum.TotalEvents)
	}
	if sum.EventTypes["t0"] != 2 || sum.EventTypes["t1"] != 2 {
		t.Fatalf("eventTypes = %v", sum.EventTypes)
	}
	if sum.OldestEvent != protocol.Timestamp(base) {
		t.Fatalf("oldest = %q", sum.OldestEvent)
	}
	if sum.NewestEvent != protocol.Timestamp(base.Add(3*time.Second)) {
		t.Fatalf("newest = %q", sum.NewestEvent)
	}
}
