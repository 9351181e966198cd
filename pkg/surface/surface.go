// Package surface creates the full-screen overlay windows the session
// renders into, one per physical monitor, and delivers their input events.
//
// The session never talks to a windowing system directly; it sees only the
// Surface/SurfaceProvider contract from pkg/interfaces, so tests drive it
// with a fake provider and no display.
package surface

import (
	"github.com/alswo471/screensaver/pkg/interfaces"
)

// NewProvider returns the platform overlay-surface provider.
func NewProvider() (interfaces.SurfaceProvider, error) {
	return newPlatformProvider()
}
