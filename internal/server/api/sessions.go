package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

type sessionResponse struct {
	ID        string  `json:"id"`
	Port      string  `json:"port"`
	BaudRate  int     `json:"baud_rate"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
	Emissions int     `json:"emissions"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

// ServeHTTP routes /api/sessions and /api/sessions/{id}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	id = strings.TrimPrefix(id, "/")

	if id == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, id)
}

func (h *SessionHandler) toResponse(sess *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        sess.ID,
		Port:      sess.Port,
		BaudRate:  sess.BaudRate,
		StartedAt: sess.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if sess.EndedAt != nil {
		ended := sess.EndedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.EndedAt = &ended
	}
	if n, err := h.store.Emissions().CountBySession(sess.ID); err == nil {
		resp.Emissions = n
	}
	return resp
}

// list handles GET /api/sessions, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, sess := range sessions {
		response.Sessions = append(response.Sessions, h.toResponse(sess))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(sess))
}
