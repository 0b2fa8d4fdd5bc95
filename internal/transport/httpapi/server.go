// Package httpapi is the request front for the agent actors: it maps
// /agents/{id}/{endpoint} onto actor messages and converts errors to the
// JSON error envelope. Routing to the right actor is all it does; every
// behavior lives behind the actor boundary.
package httpapi

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"minewright.ai/internal/agent"
	"minewright.ai/internal/protocol"
)

const maxBodyBytes = 4 << 20

var agentEndpoints = map[string]bool{
	agent.EndpointSync:      true,
	agent.EndpointMission:   true,
	agent.EndpointTactical:  true,
	agent.EndpointTelemetry: true,
	agent.EndpointHealth:    true,
}

type Server struct {
	manager *agent.Manager
	log     *log.Logger
}

func NewServer(m *agent.Manager, logger *log.Logger) *Server {
	return &Server{manager: m, log: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/agents/", s.handleAgents)
	return mux
}

func (s *Server) handleAgents(rw http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Printf("panic in %s %s: %v", r.Method, r.URL.Path, rec)
			writeJSON(rw, http.StatusInternalServerError, protocol.ErrorResponse{
				Error: "Internal server error",
			})
		}
	}()

	agentID, endpoint, ok := splitAgentPath(r.URL.Path)
	if !ok {
		writeJSON(rw, http.StatusBadRequest, protocol.ErrorResponse{
			Error:   "Invalid path",
			Message: "expected /agents/{agentId}/{endpoint}",
		})
		return
	}
	if !agentEndpoints[endpoint] {
		writeJSON(rw, http.StatusNotFound, protocol.ErrorResponse{
			Error:   "Not found",
			Message: r.URL.Path,
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(rw, http.StatusBadRequest, protocol.ErrorResponse{Error: "bad body"})
		return
	}
	_ = r.Body.Close()

	payload, err := s.manager.Dispatch(r.Context(), agentID, endpoint, r.Method, body, r.URL.Query())
	if err != nil {
		s.writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, payload)
}

func splitAgentPath(path string) (agentID, endpoint string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "agents" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func (s *Server) writeError(rw http.ResponseWriter, err error) {
	apiErr, ok := err.(*protocol.APIError)
	if !ok {
		apiErr = protocol.Internalf("%v", err)
	}
	status := protocol.HTTPStatus(apiErr.Code)

	resp := protocol.ErrorResponse{Error: apiErr.Message}
	if apiErr.Code == protocol.ErrInternal {
		resp.Error = "Internal server error"
		resp.Message = apiErr.Message
		s.log.Printf("internal error: %s", apiErr.Message)
	}
	writeJSON(rw, status, resp)
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
