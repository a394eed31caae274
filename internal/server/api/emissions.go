package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// DefaultEmissionLimit is how many emissions are returned without ?limit.
const DefaultEmissionLimit = 100

// EmissionHandler serves the emission journal of one session.
type EmissionHandler struct {
	store     *store.Store
	sessionID string
}

// NewEmissionHandler creates a handler for the given session's journal.
func NewEmissionHandler(s *store.Store, sessionID string) *EmissionHandler {
	return &EmissionHandler{store: s, sessionID: sessionID}
}

type emissionResponse struct {
	Value     int    `json:"value"`
	Heartbeat bool   `json:"heartbeat"`
	EmittedAt string `json:"emitted_at"`
}

type listEmissionsResponse struct {
	SessionID string             `json:"session_id"`
	Emissions []emissionResponse `json:"emissions"`
}

// ServeHTTP handles GET /api/emissions?limit=N, newest first. A
// session query parameter selects another session.
func (h *EmissionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := DefaultEmissionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessionID := h.sessionID
	if v := r.URL.Query().Get("session"); v != "" {
		sessionID = v
	}

	records, err := h.store.Emissions().ListBySession(sessionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list emissions")
		return
	}

	response := listEmissionsResponse{
		SessionID: sessionID,
		Emissions: make([]emissionResponse, 0, len(records)),
	}
	for _, rec := range records {
		response.Emissions = append(response.Emissions, emissionResponse{
			Value:     rec.Value,
			Heartbeat: rec.Heartbeat,
			EmittedAt: rec.EmittedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
