package agent

import (
	"sort"
	"time"

	"minewright.ai/internal/protocol"
)

// DefaultTelemetryCapacity bounds the per-agent event buffer.
const DefaultTelemetryCapacity = 100

// TelemetryRing is a fixed-capacity buffer of recent agent events with
// explicit oldest-first eviction. Not safe for concurrent use; it is owned
// by a single actor.
type TelemetryRing struct {
	buf   []protocol.TelemetryEvent
	start int
	size  int
}

func NewTelemetryRing(capacity int) *TelemetryRing {
	if capacity <= 0 {
		capacity = DefaultTelemetryCapacity
	}
	return &TelemetryRing{buf: make([]protocol.TelemetryEvent, capacity)}
}

func (r *TelemetryRing) Len() int { return r.size }

// Append adds an event, evicting the oldest when full.
func (r *TelemetryRing) Append(e protocol.TelemetryEvent) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = e
		r.size++
		return
	}
	r.buf[r.start] = e
	r.start = (r.start + 1) % len(r.buf)
}

// Snapshot returns the buffered events oldest first.
func (r *TelemetryRing) Snapshot() []protocol.TelemetryEvent {
	out := make([]protocol.TelemetryEvent, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// Restore replaces the buffer contents with events loaded from storage,
// keeping only the newest capacity entries.
func (r *TelemetryRing) Restore(events []protocol.TelemetryEvent) {
	r.start = 0
	r.size = 0
	if n := len(events) - len(r.buf); n > 0 {
		events = events[n:]
	}
	for _, e := range events {
		r.Append(e)
	}
}

// Pending returns the buffered events for a coordinator push (oldest first).
func (r *TelemetryRing) Pending() []protocol.TelemetryEvent {
	return r.Snapshot()
}

// Clear drops all buffered events.
func (r *TelemetryRing) Clear() {
	r.start = 0
	r.size = 0
}

// ClearBefore drops events older than the given instant and reports how
// many were removed. Events with unparsable timestamps are kept.
func (r *TelemetryRing) ClearBefore(before time.Time) int {
	kept := make([]protocol.TelemetryEvent, 0, r.size)
	for _, e := range r.Snapshot() {
		t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
		if err == nil && t.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	removed := r.size - len(kept)
	r.Restore(kept)
	return removed
}

// Events returns buffered events newest first, optionally filtered by type
// and minimum timestamp, truncated to limit (default 100).
func (r *TelemetryRing) Events(eventType string, since time.Time, limit int) []protocol.TelemetryEvent {
	if limit <= 0 {
		limit = DefaultTelemetryCapacity
	}
	out := make([]protocol.TelemetryEvent, 0, r.size)
	for _, e := range r.Snapshot() {
		if eventType != "" && e.EventType != eventType {
			continue
		}
		if !since.IsZero() {
			t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
			if err != nil || t.Before(since) {
				continue
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339Nano, out[i].Timestamp)
		tj, errj := time.Parse(time.RFC3339Nano, out[j].Timestamp)
		if erri != nil || errj != nil {
			return false
		}
		return ti.After(tj)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Summary reports per-type counts and the buffer's time range.
func (r *TelemetryRing) Summary() protocol.TelemetrySummary {
	sum := protocol.TelemetrySummary{
		TotalEvents: r.size,
		EventTypes:  map[string]int{},
	}
	if r.size == 0 {
		return sum
	}
	events := r.Snapshot()
	oldest, newest := events[0].Timestamp, events[0].Timestamp
	for _, e := range events {
		sum.EventTypes[e.EventType]++
		if e.Timestamp < oldest {
			oldest = e.Timestamp
		}
		if e.Timestamp > newest {
			newest = e.Timestamp
		}
	}
	sum.OldestEvent = oldest
	sum.NewestEvent = newest
	return sum
}
