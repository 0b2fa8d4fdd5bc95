package observer

import (
	"testing"

	"minewright.ai/internal/protocol"
)

func TestHubFanOutByAgent(t *testing.T) {
	h := NewHub()

	alice, cancelAlice := h.Subscribe("alice")
	defer cancelAlice()
	bob, cancelBob := h.Subscribe("bob")
	defer cancelBob()

	h.Publish(protocol.TelemetryEvent{EventType: "tactical", AgentID: "alice"})

	select {
	case e := <-alice:
		if e.EventType != "tactical" {
			t.Fatalf("eventType = %q", e.EventType)
		}
	default:
		t.Fatal("alice subscriber received nothing")
	}
	select {
	case e := <-bob:
		t.Fatalf("bob received alice's event: %+v", e)
	default:
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("alice")
	cancel()
	h.Publish(protocol.TelemetryEvent{EventType: "tick", AgentID: "alice"})

	select {
	case e := <-ch:
		t.Fatalf("cancelled subscriber received %+v", e)
	default:
	}
}

func TestHubSlowSubscriberDrops(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("alice")
	defer cancel()

	// Saturate the buffer, then one more; Publish must not block.
	for i := 0; i < 70; i++ {
		h.Publish(protocol.TelemetryEvent{EventType: "tick", AgentID: "alice"})
	}
	if n := len(ch); n != 64 {
		t.Fatalf("buffered = %d, want 64 (overflow dropped)", n)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1:51234": true,
		"[::1]:51234":     true,
		"10.0.0.8:51234":  false,
		"example.com:80":  false,
		"garbage":         false,
	}
	for addr, want := range cases {
		if got := isLoopbackRemote(addr); got != want {
			t.Fatalf("isLoopbackRemote(%q) = %v, want %v", addr, got, want)
		}
	}
}
