// Package config loads and saves the mudra configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/transport"
)

// Defaults.
const (
	DefaultCameraID      = 0
	DefaultWidth         = 640
	DefaultHeight        = 480
	DefaultListen        = "127.0.0.1:8080"
	DefaultMinConfidence = 0.85
)

// Config holds the application configuration.
type Config struct {
	CameraID          int                   `json:"camera_id"`
	Width             int                   `json:"width"`
	Height            int                   `json:"height"`
	MotionThreshold   float64               `json:"motion_threshold"`   // pixels
	HeartbeatInterval string                `json:"heartbeat_interval"` // duration string like "500ms"
	Port              string                `json:"port"`               // empty means prompt
	Serial            transport.PortOptions `json:"serial"`
	Listen            string                `json:"listen"` // empty disables the HTTP API
	Headless          bool                  `json:"headless"`
	DBPath            string                `json:"db_path"`
	MinConfidence     float64               `json:"min_confidence"`
}

// Dir returns the per-user data directory, ~/.mudra.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.json")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		CameraID:          DefaultCameraID,
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		MotionThreshold:   counter.DefaultMotionThreshold,
		HeartbeatInterval: counter.DefaultHeartbeatInterval.String(),
		Serial:            transport.PortOptions{BaudRate: transport.DefaultBaudRate, DataBits: 8, StopBits: 1, Parity: "N"},
		Listen:            DefaultListen,
		DBPath:            filepath.Join(Dir(), "mudra.db"),
		MinConfidence:     DefaultMinConfidence,
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
// Fields left out of the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate clamps out-of-range values to safe defaults and rejects values
// that cannot be repaired.
func (c *Config) Validate() error {
	if c.CameraID < 0 {
		c.CameraID = DefaultCameraID
	}
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = DefaultWidth, DefaultHeight
	}
	if c.MotionThreshold <= 0 {
		c.MotionThreshold = counter.DefaultMotionThreshold
	}
	if c.HeartbeatInterval == "" {
		c.HeartbeatInterval = counter.DefaultHeartbeatInterval.String()
	}
	d, err := time.ParseDuration(c.HeartbeatInterval)
	if err != nil {
		return fmt.Errorf("invalid heartbeat_interval %q: %w", c.HeartbeatInterval, err)
	}
	if d <= 0 {
		c.HeartbeatInterval = counter.DefaultHeartbeatInterval.String()
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(Dir(), "mudra.db")
	}

	opts, err := c.Serial.Normalize()
	if err != nil {
		return fmt.Errorf("invalid serial options: %w", err)
	}
	c.Serial = opts

	return nil
}

// Counter returns the pipeline tuning derived from this configuration.
func (c *Config) Counter() counter.Config {
	d, err := time.ParseDuration(c.HeartbeatInterval)
	if err != nil || d <= 0 {
		d = counter.DefaultHeartbeatInterval
	}
	return counter.Config{
		MotionThreshold:   c.MotionThreshold,
		HeartbeatInterval: d,
	}
}

// Overrides holds command-line values that replace file values when set.
type Overrides struct {
	Port     *string
	BaudRate *int
	CameraID *int
	Listen   *string
	Headless *bool
	DBPath   *string
}

// Override applies the set fields of o to c.
func (c *Config) Override(o Overrides) {
	if o.Port != nil && *o.Port != "" {
		c.Port = *o.Port
	}
	if o.BaudRate != nil && *o.BaudRate > 0 {
		c.Serial.BaudRate = *o.BaudRate
	}
	if o.CameraID != nil && *o.CameraID >= 0 {
		c.CameraID = *o.CameraID
	}
	if o.Listen != nil {
		c.Listen = *o.Listen
	}
	if o.Headless != nil {
		c.Headless = *o.Headless
	}
	if o.DBPath != nil && *o.DBPath != "" {
		c.DBPath = *o.DBPath
	}
}
