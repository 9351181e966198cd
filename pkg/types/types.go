// Package types contains shared data structures used across the application.
package types

import "time"

// MonitorRect describes one physical monitor in virtual-screen pixels.
type MonitorRect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// ScaleMode is the policy for mapping a source image onto a monitor.
type ScaleMode string

const (
	// ScaleFit letterboxes: the whole image stays visible, the remainder is background.
	ScaleFit ScaleMode = "fit"
	// ScaleFill covers the monitor, center-cropping any overflow.
	ScaleFill ScaleMode = "fill"
	// ScaleStretch resizes to the exact monitor size, ignoring aspect ratio.
	ScaleStretch ScaleMode = "stretch"
)

// Valid reports whether m is one of the three known scale modes.
func (m ScaleMode) Valid() bool {
	switch m {
	case ScaleFit, ScaleFill, ScaleStretch:
		return true
	}
	return false
}

// Slide is one entry in a slideshow: either an image file or the
// background-only sentinel. The tagged variant replaces a nullable path.
type Slide struct {
	Path           string
	BackgroundOnly bool
}

// ImageSlide returns a slide backed by an image file.
func ImageSlide(path string) Slide {
	return Slide{Path: path}
}

// BackgroundSlide returns the background-only sentinel slide.
func BackgroundSlide() Slide {
	return Slide{BackgroundOnly: true}
}

// Point is a pointer position in virtual-screen coordinates.
type Point struct {
	X int
	Y int
}

// InputKind classifies an input event delivered by an overlay surface.
type InputKind int

const (
	// KeyPress is any keyboard key going down.
	KeyPress InputKind = iota
	// ButtonPress is any pointer button going down.
	ButtonPress
	// Motion is a pointer movement.
	Motion
)

// InputEvent is one input event observed on an overlay surface.
// SurfaceID identifies the surface the event occurred on, so motion
// deltas are computed against that surface's own baseline.
type InputEvent struct {
	Kind      InputKind
	SurfaceID int
	Pos       Point
	Time      time.Time
}
