// Package server provides the local HTTP API of the mudra finger counter.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// StateSource reports the latest loop state.
type StateSource interface {
	Snapshot() app.Snapshot
}

// Config holds the server configuration.
type Config struct {
	// Store backs /api/emissions and /api/sessions. Nil leaves them unrouted.
	Store     *store.Store
	SessionID string
	// SerialPort is the connected device path, empty in degraded mode.
	SerialPort string
	State      StateSource
	Live       *LiveHandler
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.State != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/emissions", api.NewEmissionHandler(s.config.Store, s.config.SessionID))

		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	if s.config.Live != nil {
		s.mux.Handle("/api/live", s.config.Live)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type stateResponse struct {
	app.Snapshot
	SessionID       string `json:"session_id,omitempty"`
	SerialPort      string `json:"serial_port,omitempty"`
	SerialConnected bool   `json:"serial_connected"`
	Clients         int    `json:"live_clients"`
}

// handleState handles GET requests to /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := stateResponse{
		Snapshot:        s.config.State.Snapshot(),
		SessionID:       s.config.SessionID,
		SerialPort:      s.config.SerialPort,
		SerialConnected: s.config.SerialPort != "",
	}
	if s.config.Live != nil {
		response.Clients = s.config.Live.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
