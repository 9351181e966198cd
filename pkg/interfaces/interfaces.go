// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import (
	"image"
	"time"

	"github.com/alswo471/screensaver/pkg/types"
)

// IdleDetector reports how long the system has been without user input.
type IdleDetector interface {
	// IdleSeconds returns the elapsed idle time. Implementations that
	// cannot measure idleness must return 0 rather than an error, so the
	// screensaver never activates spuriously.
	IdleSeconds() float64
}

// DisplayEnumerator lists the physical monitors.
type DisplayEnumerator interface {
	// Monitors returns at least one rectangle; implementations fall back
	// to a single sane full-desktop rectangle when enumeration fails.
	Monitors() []types.MonitorRect
}

// Surface is one full-screen, borderless, always-on-top rendering target
// bound to one physical monitor.
type Surface interface {
	// ID identifies the surface within its session.
	ID() int
	// Bounds returns the monitor rectangle the surface covers.
	Bounds() types.MonitorRect
	// SetFrame replaces the surface content. The frame is always exactly
	// the surface's bounds in size; application is atomic.
	SetFrame(frame *image.NRGBA)
	// PointerPosition returns the current pointer location, if known.
	// ok is false when the platform cannot report it.
	PointerPosition() (types.Point, bool)
	// Close destroys the surface. Safe to call more than once.
	Close()
}

// SurfaceProvider creates overlay surfaces and delivers their input events.
type SurfaceProvider interface {
	// CreateSurface builds one overlay surface covering rect. The surface
	// delivers its input events immediately, before any sibling surface
	// exists.
	CreateSurface(id int, rect types.MonitorRect) (Surface, error)
	// Events is the stream of input events from every live surface.
	Events() <-chan types.InputEvent
}

// TrayService is the optional tray-icon capability. A no-op implementation
// is selected when no tray is available; session logic never branches on
// library presence.
type TrayService interface {
	// Run starts the tray and blocks until Stop. Menu actions are reported
	// through the handler, which must marshal onto the session loop itself.
	Run(handler TrayHandler)
	// SetActive updates the tray status line.
	SetActive(active bool)
	// Stop tears the tray down. Idempotent.
	Stop()
	// Available reports whether this service actually shows an icon.
	Available() bool
}

// TrayHandler receives tray menu actions.
type TrayHandler interface {
	OnOpenSettings()
	OnRunNow()
	OnQuit()
}

// Notifier surfaces user-facing notices (activation failures and the like).
type Notifier interface {
	Notify(title, message string) error
}

// SettingsWindow is the hide/restore contract the session holds toward the
// settings surface. Restore is idempotent and never force-raises.
type SettingsWindow interface {
	Hide()
	// Restore makes the window reachable again if it is not already
	// visible. No-op when a tray icon is the preferred re-entry point.
	Restore()
	Visible() bool
}

// Clock abstracts wall-clock time so tests can drive it.
type Clock interface {
	Now() time.Time
}
