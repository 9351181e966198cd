//go:build !windows && !linux && !darwin

package idle

import (
	"github.com/alswo471/screensaver/pkg/interfaces"
)

// ZeroDetector always reports zero idle time, so the screensaver never
// auto-activates on platforms without idle measurement.
type ZeroDetector struct{}

// IdleSeconds always returns 0.
func (ZeroDetector) IdleSeconds() float64 { return 0 }

func newPlatformDetector() interfaces.IdleDetector {
	return ZeroDetector{}
}
