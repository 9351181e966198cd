// Package idle provides platform idle-time detection: how long the system
// has been without user input.
package idle

import (
	"github.com/alswo471/screensaver/pkg/interfaces"
)

// NewDetector creates a platform-appropriate idle detector.
// It returns:
// - WindowsDetector on Windows (GetLastInputInfo)
// - CommandDetector on Linux (xprintidle) and macOS (ioreg), when available
// - PointerDetector as a fallback, inferring idleness from pointer movement.
//
// Every detector honors the zero-on-failure contract: if idle time cannot
// be measured, IdleSeconds reports 0 so the screensaver never activates
// spuriously.
func NewDetector() interfaces.IdleDetector {
	return newPlatformDetector()
}
