// Package app wires the camera, hand detector, counter and sinks into the
// frame loop of the mudra finger counter.
package app

import (
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/transport"
)

// Config holds configuration options for the application.
type Config struct {
	CameraID int
	Width    int
	Height   int
	Counter  counter.Config
	Detector detector.Config

	// Sink receives every emission. Nil discards them.
	Sink transport.Sink
	// Console receives a line each time the count changes. Nil means stdout.
	Console io.Writer
	// OnChange, if set, is called with every new count.
	OnChange func(n int)
	// Now, if set, replaces time.Now.
	Now func() time.Time
}

// Snapshot is the latest observable state of the loop.
type Snapshot struct {
	Count        int       `json:"count"`
	Raw          int       `json:"raw"`
	Hands        int       `json:"hands"`
	Trusted      bool      `json:"trusted"`
	Displacement float64   `json:"displacement"`
	Paused       bool      `json:"paused"`
	Frames       uint64    `json:"frames"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// App is the finger-counting application.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	sink     transport.Sink
	console  io.Writer
	now      func() time.Time

	// state is owned by the frame loop.
	state counter.State

	mu       sync.RWMutex
	paused   bool
	snapshot Snapshot
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a new App with a real camera. It uses MediaPipe for hand
// detection when available and falls back to the mock detector.
func New(config Config) *App {
	a := newApp(config, capture.NewCamera(config.CameraID, config.Width, config.Height))

	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// NewWithDevices creates an App around an existing camera and detector.
func NewWithDevices(config Config, cam capture.Camera, d detector.Detector) *App {
	a := newApp(config, cam)
	a.detector = d
	return a
}

func newApp(config Config, cam capture.Camera) *App {
	a := &App{
		config:  config,
		camera:  cam,
		sink:    config.Sink,
		console: config.Console,
		now:     config.Now,
	}
	if a.sink == nil {
		a.sink = transport.Discard{}
	}
	if a.console == nil {
		a.console = os.Stdout
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// SetPaused pauses or resumes frame processing. While paused no frames are
// captured and nothing is emitted.
func (a *App) SetPaused(paused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = paused
	a.snapshot.Paused = paused
}

// TogglePause flips the paused state and returns the new value.
func (a *App) TogglePause() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = !a.paused
	a.snapshot.Paused = a.paused
	return a.paused
}

// IsPaused reports whether processing is paused.
func (a *App) IsPaused() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.paused
}

// Snapshot returns the latest loop state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Open opens the camera.
func (a *App) Open() error {
	return a.camera.Open()
}

// Start opens the camera and runs the headless loop in the background.
// Capture failures are passed to onError, after which the loop stops.
func (a *App) Start(onError func(error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		if err := a.runPipeline(stop); err != nil && onError != nil {
			onError(err)
		}
	}(a.stopCh, a.doneCh)

	log.Println("Counting pipeline started")
	return nil
}

// Stop halts the loop and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stop, done := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Counting pipeline stopped")
}
