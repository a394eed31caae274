package display

import "gocv.io/x/gocv"

// Window defaults.
const (
	DefaultTitle  = "mudra"
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Key is a key code returned by Window.Poll.
type Key int

// Recognized keys.
const (
	KeyNone  Key = -1
	KeyPause Key = 'p'
	KeyQuit  Key = 'q'
)

// Window is a resizable desktop window showing annotated frames.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a window with the given title, sized width x height.
// It must be called from the main OS thread.
func NewWindow(title string, width, height int) *Window {
	win := gocv.NewWindow(title)
	win.ResizeWindow(width, height)
	return &Window{win: win}
}

// Show displays img.
func (w *Window) Show(img gocv.Mat) {
	w.win.IMShow(img)
}

// Poll waits up to one millisecond for a key press.
func (w *Window) Poll() Key {
	k := w.win.WaitKey(1)
	if k < 0 {
		return KeyNone
	}
	return Key(k & 0xFF)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
