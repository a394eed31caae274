// Package display draws the counting overlay onto camera frames and shows
// them in a desktop window.
package display

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// Colors are BGR-ordered to match OpenCV Mats, stored in color.RGBA fields.
var (
	handColor     = color.RGBA{R: 255, G: 0, B: 255, A: 0}
	landmarkColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	boneColor     = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	countColor    = color.RGBA{R: 0, G: 255, B: 255, A: 0}
	playingColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	pausedColor   = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	legendColor   = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	black         = color.RGBA{}
)

// bgr converts an RGB-described color into the channel order gocv expects.
func bgr(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.B, G: c.G, B: c.R, A: c.A}
}

// connections pairs landmark indices joined by a bone line.
var connections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// boxPadding is the margin drawn around a hand's bounding box.
const boxPadding = 20

func pt(p detector.Point3D) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// DrawHands draws each hand's skeleton, a padded bounding box and its
// handedness label.
func DrawHands(img *gocv.Mat, hands []detector.Hand) {
	for _, h := range hands {
		for _, c := range connections {
			gocv.Line(img, pt(h.Points[c[0]]), pt(h.Points[c[1]]), bgr(boneColor), 2)
		}
		for _, p := range h.Points {
			gocv.Circle(img, pt(p), 4, bgr(landmarkColor), -1)
		}

		x, y := int(h.Box.X), int(h.Box.Y)
		w, ht := int(h.Box.Width), int(h.Box.Height)
		box := image.Rect(x-boxPadding, y-boxPadding, x+w+boxPadding, y+ht+boxPadding)
		gocv.Rectangle(img, box, bgr(handColor), 2)
		gocv.PutText(img, string(h.Handedness), image.Pt(x-30, y-30),
			gocv.FontHersheyPlain, 2, bgr(handColor), 2)
	}
}

// Status is what the overlay reports besides the hands.
type Status struct {
	Count  int
	Paused bool
}

// CountLabel is the text shown for the current count, also printed to the
// console on every change.
func CountLabel(n int) string {
	return fmt.Sprintf("Number of fingers: %d", n)
}

// DrawStatus draws the current count, the play state and the key legend.
func DrawStatus(img *gocv.Mat, s Status) {
	gocv.PutText(img, CountLabel(s.Count), image.Pt(20, 440),
		gocv.FontHersheyPlain, 1.8, bgr(countColor), 2)

	if s.Paused {
		gocv.Rectangle(img, image.Rect(20, 20, 150, 80), black, -1)
		gocv.PutText(img, "PAUSED", image.Pt(30, 60),
			gocv.FontHersheySimplex, 1.5, bgr(pausedColor), 3)
	} else {
		gocv.PutText(img, "PLAYING", image.Pt(20, 50),
			gocv.FontHersheySimplex, 1, bgr(playingColor), 2)
	}

	gocv.PutText(img, "Keybinds:", image.Pt(20, 100), gocv.FontHersheySimplex, 0.9, bgr(legendColor), 2)
	gocv.PutText(img, "P - Pause/Play", image.Pt(20, 130), gocv.FontHersheySimplex, 0.7, bgr(legendColor), 2)
	gocv.PutText(img, "Q - Quit", image.Pt(20, 160), gocv.FontHersheySimplex, 0.7, bgr(legendColor), 2)
}
