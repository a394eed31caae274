package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func seedSession(t *testing.T, s *store.Store, values ...int) *store.Session {
	t.Helper()

	sess, err := s.Sessions().Start("/dev/ttyACM0", 9600)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	at := time.Now()
	for i, v := range values {
		e := counter.Emission{Value: v, At: at.Add(time.Duration(i) * time.Millisecond)}
		if err := s.Emissions().Record(sess.ID, e); err != nil {
			t.Fatalf("failed to record emission: %v", err)
		}
	}
	return sess
}

func TestEmissionHandler_List(t *testing.T) {
	s := newTestStore(t)
	sess := seedSession(t, s, 1, 2, 3)
	handler := NewEmissionHandler(s, sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/emissions?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listEmissionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.SessionID != sess.ID {
		t.Errorf("session_id = %q, want %q", response.SessionID, sess.ID)
	}
	if len(response.Emissions) != 2 {
		t.Fatalf("expected 2 emissions, got %d", len(response.Emissions))
	}
	if response.Emissions[0].Value != 3 || response.Emissions[1].Value != 2 {
		t.Errorf("emissions should be newest first, got %+v", response.Emissions)
	}
}

func TestEmissionHandler_OtherSession(t *testing.T) {
	s := newTestStore(t)
	current := seedSession(t, s)
	old := seedSession(t, s, 4)
	handler := NewEmissionHandler(s, current.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/emissions?session="+old.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var response listEmissionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Emissions) != 1 || response.Emissions[0].Value != 4 {
		t.Errorf("expected the old session's emission, got %+v", response.Emissions)
	}
}

func TestEmissionHandler_Errors(t *testing.T) {
	s := newTestStore(t)
	handler := NewEmissionHandler(s, "any")

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{name: "bad limit", method: http.MethodGet, target: "/api/emissions?limit=abc", want: http.StatusBadRequest},
		{name: "zero limit", method: http.MethodGet, target: "/api/emissions?limit=0", want: http.StatusBadRequest},
		{name: "post", method: http.MethodPost, target: "/api/emissions", want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSessionHandler_ListAndGet(t *testing.T) {
	s := newTestStore(t)
	sess := seedSession(t, s, 1, 1)
	handler := NewSessionHandler(s)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var listed listSessionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(listed.Sessions))
	}
	if listed.Sessions[0].Emissions != 2 {
		t.Errorf("emissions = %d, want 2", listed.Sessions[0].Emissions)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Port != "/dev/ttyACM0" || got.BaudRate != 9600 {
		t.Errorf("unexpected session %+v", got)
	}
	if got.EndedAt != nil {
		t.Error("running session should not have ended_at")
	}
}

func TestSessionHandler_NotFound(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
