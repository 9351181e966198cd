// Package display enumerates the physical monitors.
package display

import (
	"github.com/kbinani/screenshot"
	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/types"
)

// fallbackRect is used when the platform cannot enumerate displays, so a
// session always has at least one surface to cover.
var fallbackRect = types.MonitorRect{Left: 0, Top: 0, Width: 1920, Height: 1080}

// Enumerator lists monitors through the platform display service.
type Enumerator struct{}

// NewEnumerator creates a platform display enumerator.
func NewEnumerator() *Enumerator {
	return &Enumerator{}
}

// Monitors returns the rectangle of every active display. Enumeration
// failure degrades to a single full-desktop rectangle, never an error.
func (e *Enumerator) Monitors() []types.MonitorRect {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		log.Warn("display enumeration unavailable, using single-screen fallback")
		return []types.MonitorRect{fallbackRect}
	}

	monitors := make([]types.MonitorRect, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
			continue
		}
		monitors = append(monitors, types.MonitorRect{
			Left:   bounds.Min.X,
			Top:    bounds.Min.Y,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
	}
	if len(monitors) == 0 {
		return []types.MonitorRect{fallbackRect}
	}
	return monitors
}
