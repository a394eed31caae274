package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/store"
)

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ok", response["status"])
		assert.Contains(t, response, "uptime")
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			rec := serve(s, method, "/api/health")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)
		}
	})
}

func TestServer_StateWithoutStore(t *testing.T) {
	s := New(Config{State: staticState{Count: 2, Hands: 1, Paused: true}})

	rec := serve(s, http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var state map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.EqualValues(t, 2, state["count"])
	assert.EqualValues(t, 1, state["hands"])
	assert.Equal(t, true, state["paused"])
	assert.Equal(t, false, state["serial_connected"])
	assert.EqualValues(t, 0, state["live_clients"])
	assert.NotContains(t, state, "session_id")

	assert.Equal(t, http.StatusMethodNotAllowed, serve(s, http.MethodPost, "/api/state").Code)
}

func TestServer_RoutesFollowDependencies(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	live := NewLiveHandler()
	defer live.Close()

	tests := []struct {
		name   string
		config Config
		routed map[string]bool
	}{
		{
			name:   "nothing configured",
			config: Config{},
			routed: map[string]bool{"/api/state": false, "/api/emissions": false, "/api/sessions": false, "/api/live": false},
		},
		{
			name:   "state only",
			config: Config{State: staticState{}},
			routed: map[string]bool{"/api/state": true, "/api/emissions": false, "/api/sessions": false, "/api/live": false},
		},
		{
			name:   "store only",
			config: Config{Store: st},
			routed: map[string]bool{"/api/state": false, "/api/emissions": true, "/api/sessions": true, "/api/live": false},
		},
		{
			name:   "live only",
			config: Config{Live: live},
			routed: map[string]bool{"/api/state": false, "/api/emissions": false, "/api/sessions": false, "/api/live": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.config)
			for path, want := range tt.routed {
				code := serve(s, http.MethodGet, path).Code
				if want {
					assert.NotEqual(t, http.StatusNotFound, code, "%s should be routed", path)
				} else {
					assert.Equal(t, http.StatusNotFound, code, "%s should not be routed", path)
				}
			}
		})
	}
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{State: staticState{}})

	assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/api/nonexistent").Code)
	assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/index.html").Code)
}

func TestNew(t *testing.T) {
	s := New(Config{SessionID: "abc", SerialPort: "/dev/ttyACM0"})
	require.NotNil(t, s)
	assert.Equal(t, "abc", s.config.SessionID)
	assert.Equal(t, "/dev/ttyACM0", s.config.SerialPort)

	var _ http.Handler = s
}
