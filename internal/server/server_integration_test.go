package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transport"
)

type staticState app.Snapshot

func (s staticState) Snapshot() app.Snapshot { return app.Snapshot(s) }

func TestAPI_State(t *testing.T) {
	srv := New(Config{
		SessionID:  "abc",
		SerialPort: "/dev/ttyACM0",
		State:      staticState{Count: 3, Raw: 4, Hands: 1, Trusted: true, Frames: 12},
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state struct {
		Count           int    `json:"count"`
		Raw             int    `json:"raw"`
		Frames          uint64 `json:"frames"`
		Paused          bool   `json:"paused"`
		SessionID       string `json:"session_id"`
		SerialConnected bool   `json:"serial_connected"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))

	assert.Equal(t, 3, state.Count)
	assert.Equal(t, 4, state.Raw)
	assert.Equal(t, uint64(12), state.Frames)
	assert.Equal(t, "abc", state.SessionID)
	assert.True(t, state.SerialConnected)
}

func TestAPI_StateDegraded(t *testing.T) {
	srv := New(Config{State: staticState{}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Contains(t, rec.Body.String(), `"serial_connected":false`)
}

func TestAPI_JournalWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.Sessions().Start("", 0)
	require.NoError(t, err)
	for _, v := range []int{2, 5} {
		require.NoError(t, s.Emissions().Record(sess.ID, counter.Emission{Value: v, At: time.Now()}))
	}

	srv := New(Config{Store: s, SessionID: sess.ID})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/emissions?limit=1")
	require.NoError(t, err)
	var listed struct {
		Emissions []struct {
			Value int `json:"value"`
		} `json:"emissions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()

	require.Len(t, listed.Emissions, 1)
	assert.Equal(t, 5, listed.Emissions[0].Value)

	resp, err = ts.Client().Get(ts.URL + "/api/sessions/" + sess.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_Live(t *testing.T) {
	live := NewLiveHandler()
	defer live.Close()

	srv := New(Config{Live: live})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for live.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, live.Clients())

	// The handler is used as a sink alongside the serial port.
	var sink transport.Sink = transport.Fanout{transport.Discard{}, live}
	at := time.UnixMilli(1700000000000)
	sink.Send(counter.Emission{Value: 4, At: at, Heartbeat: true})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg liveMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, liveMessage{Value: 4, Heartbeat: true, Timestamp: 1700000000000}, msg)
}

func TestLiveHandler_SendWithoutClients(t *testing.T) {
	live := NewLiveHandler()
	defer live.Close()

	// Overfilling the queue must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < liveQueueSize*4; i++ {
			live.Send(counter.Emission{Value: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked")
	}
}
