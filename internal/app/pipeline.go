package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
)

// Frame is one processed camera frame.
type Frame struct {
	// Image is the captured frame. The receiver closes it.
	Image *gocv.Mat
	Hands []detector.Hand
	// Result is nil when detection failed and the frame was skipped.
	Result *counter.Result
}

// Close releases the frame image.
func (f *Frame) Close() {
	if f != nil && f.Image != nil {
		f.Image.Close()
		f.Image = nil
	}
}

// Step captures one frame and runs it through detection, the counter and
// the sinks. A capture error is returned as is. A detection error is
// logged and the frame is returned without touching the counter state.
func (a *App) Step() (*Frame, error) {
	img, err := a.camera.ReadFrame()
	if err != nil {
		return nil, err
	}

	frame := &Frame{Image: img}

	hands, err := a.Detector().Detect(img)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return frame, nil
	}
	if len(hands) > counter.MaxHands {
		hands = hands[:counter.MaxHands]
	}
	frame.Hands = hands

	var res counter.Result
	a.state, res = counter.Step(a.state, hands, a.now(), a.config.Counter)
	frame.Result = &res

	a.publish(res)
	return frame, nil
}

// publish records the frame result and delivers any emission.
func (a *App) publish(res counter.Result) {
	a.mu.Lock()
	a.snapshot.Count = a.state.Emission.Current
	a.snapshot.Raw = res.Raw
	a.snapshot.Hands = res.Hands
	a.snapshot.Trusted = res.Trusted
	a.snapshot.Displacement = res.Displacement
	a.snapshot.Frames++
	a.snapshot.UpdatedAt = a.now()
	a.mu.Unlock()

	if !res.Emitted {
		return
	}

	a.sink.Send(res.Emission)

	if !res.Emission.Heartbeat {
		fmt.Fprintln(a.console, display.CountLabel(res.Emission.Value))
		if a.config.OnChange != nil {
			a.config.OnChange(res.Emission.Value)
		}
	}
}

// runPipeline processes frames until stop is closed or capture fails.
func (a *App) runPipeline(stop <-chan struct{}) error {
	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
			if a.IsPaused() {
				continue
			}

			frame, err := a.Step()
			if err != nil {
				return fmt.Errorf("capture: %w", err)
			}
			frame.Close()
		}
	}
}

// Run processes frames without a window until ctx is cancelled or capture
// fails. The camera must already be open.
func (a *App) Run(ctx context.Context) error {
	stop := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.runPipeline(stop)
	}()

	select {
	case <-ctx.Done():
		close(stop)
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Screen shows frames and reports key presses.
type Screen interface {
	Show(img gocv.Mat)
	Poll() display.Key
}

// RunWindow drives the loop from the calling goroutine, drawing the overlay
// onto each frame and showing it on screen. While paused the last frame
// stays on screen. It returns when q is pressed, ctx is cancelled or
// capture fails. The camera must already be open.
func (a *App) RunWindow(ctx context.Context, screen Screen) error {
	var last *Frame
	defer func() { last.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !a.IsPaused() {
			frame, err := a.Step()
			if err != nil {
				return fmt.Errorf("capture: %w", err)
			}
			last.Close()
			last = frame
		}

		if last != nil {
			view := last.Image.Clone()
			display.DrawHands(&view, last.Hands)
			display.DrawStatus(&view, display.Status{
				Count:  a.Snapshot().Count,
				Paused: a.IsPaused(),
			})
			screen.Show(view)
			view.Close()
		}

		switch screen.Poll() {
		case display.KeyQuit:
			return nil
		case display.KeyPause:
			if a.TogglePause() {
				log.Println("Paused")
			} else {
				log.Println("Resumed")
			}
		}
	}
}
