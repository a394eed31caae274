package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/transport"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": "/dev/ttyACM0", "serial": {"baud_rate": 115200}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
	assert.Equal(t, transport.PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}, cfg.Serial)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, counter.DefaultMotionThreshold, cfg.MotionThreshold)
	assert.Equal(t, "500ms", cfg.HeartbeatInterval)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"port": `},
		{name: "bad duration", content: `{"heartbeat_interval": "soon"}`},
		{name: "bad parity", content: `{"serial": {"parity": "mark"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	want := DefaultConfig()
	want.Port = "/dev/ttyUSB0"
	want.Headless = true
	want.HeartbeatInterval = "1s"
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ClampsValues(t *testing.T) {
	cfg := &Config{
		CameraID:          -1,
		Width:             0,
		Height:            720,
		MotionThreshold:   -5,
		HeartbeatInterval: "-1s",
		MinConfidence:     3,
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultCameraID, cfg.CameraID)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
	assert.Equal(t, counter.DefaultMotionThreshold, cfg.MotionThreshold)
	assert.Equal(t, counter.DefaultHeartbeatInterval.String(), cfg.HeartbeatInterval)
	assert.Equal(t, DefaultMinConfidence, cfg.MinConfidence)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, transport.DefaultBaudRate, cfg.Serial.BaudRate)
}

func TestCounter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MotionThreshold = 20
	cfg.HeartbeatInterval = "250ms"

	assert.Equal(t, counter.Config{MotionThreshold: 20, HeartbeatInterval: 250 * time.Millisecond}, cfg.Counter())
}

func TestOverride(t *testing.T) {
	cfg := DefaultConfig()
	port, baud, cam, listen, headless := "/dev/ttyS1", 57600, 2, "", true

	cfg.Override(Overrides{Port: &port, BaudRate: &baud, CameraID: &cam, Listen: &listen, Headless: &headless})

	assert.Equal(t, "/dev/ttyS1", cfg.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, 2, cfg.CameraID)
	assert.Empty(t, cfg.Listen)
	assert.True(t, cfg.Headless)

	// Unset and zero overrides leave values alone.
	empty, zero := "", 0
	cfg.Override(Overrides{Port: &empty, BaudRate: &zero})
	assert.Equal(t, "/dev/ttyS1", cfg.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
}
