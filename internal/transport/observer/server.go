// Package observer streams an agent's telemetry events to websocket
// clients. Loopback-only; this is an operator window, not an agent
// surface.
package observer

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"minewright.ai/internal/protocol"
)

// Hub fans telemetry events out to per-agent subscribers. Slow
// subscribers drop events rather than backing up the actors.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan protocol.TelemetryEvent
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[uint64]chan protocol.TelemetryEvent{}}
}

// Publish delivers an event to every subscriber of its agent.
func (h *Hub) Publish(e protocol.TelemetryEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[e.AgentID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers for one agent's events; the returned func cancels.
func (h *Hub) Subscribe(agentID string) (<-chan protocol.TelemetryEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	ch := make(chan protocol.TelemetryEvent, 64)
	if h.subs[agentID] == nil {
		h.subs[agentID] = map[uint64]chan protocol.TelemetryEvent{}
	}
	h.subs[agentID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if m := h.subs[agentID]; m != nil {
			delete(m, id)
			if len(m) == 0 {
				delete(h.subs, agentID)
			}
		}
	}
	return ch, cancel
}

type Server struct {
	hub *Hub
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, logger *log.Logger) *Server {
	return &Server{
		hub: hub,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// WSHandler serves GET /watch/{agentId}.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		agentID := strings.TrimPrefix(r.URL.Path, "/watch/")
		if agentID == "" || strings.Contains(agentID, "/") {
			http.Error(rw, "expected /watch/{agentId}", http.StatusBadRequest)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		events, cancel := s.hub.Subscribe(agentID)
		defer cancel()

		done := make(chan struct{})

		// Reader: only there to notice the close.
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case e := <-events:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteJSON(e); err != nil {
					return
				}
			}
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
