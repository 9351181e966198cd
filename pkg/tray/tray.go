// Package tray provides the optional system-tray capability. When no tray
// host is available a no-op implementation is selected at startup, so the
// session never branches on library presence.
package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/getlantern/systray"
	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/interfaces"
)

// NewService selects the tray implementation. enabled comes from startup
// detection (flags, headless environment); the fallback for a disabled
// tray is minimize-to-taskbar behavior driven by the SettingsWindow.
func NewService(enabled bool) interfaces.TrayService {
	if !enabled {
		log.Info("tray disabled, settings window restore will be used instead")
		return &Noop{stop: make(chan struct{})}
	}
	return &Systray{}
}

// Systray shows an icon with Open Settings / Run Now / Quit entries.
type Systray struct {
	handler interfaces.TrayHandler

	mu         sync.Mutex
	statusItem *systray.MenuItem
	stopOnce   sync.Once
}

// Run starts the tray loop. It blocks until Stop, so the caller runs it on
// its own goroutine. Menu clicks are forwarded to the handler, which is
// responsible for marshaling onto the session loop.
func (t *Systray) Run(handler interfaces.TrayHandler) {
	t.handler = handler
	systray.Run(t.onReady, func() {})
}

// SetActive updates the status line shown in the menu.
func (t *Systray) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.statusItem == nil {
		return
	}
	if active {
		t.statusItem.SetTitle("Status: screensaver active")
	} else {
		t.statusItem.SetTitle("Status: watching for idle")
	}
}

// Stop tears the tray down. Idempotent.
func (t *Systray) Stop() {
	t.stopOnce.Do(systray.Quit)
}

// Available reports that this service shows a real icon.
func (t *Systray) Available() bool { return true }

func (t *Systray) onReady() {
	systray.SetIcon(iconPNG())
	systray.SetTitle("Screensaver")
	systray.SetTooltip("Idle screensaver")

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem("Status: watching for idle", "Current state")
	t.statusItem.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open Settings", "Open the settings page")
	runItem := systray.AddMenuItem("Run Now", "Start the screensaver immediately")
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Exit the screensaver")

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.handler.OnOpenSettings()
			case <-runItem.ClickedCh:
				t.handler.OnRunNow()
			case <-quitItem.ClickedCh:
				t.handler.OnQuit()
				return
			}
		}
	}()
}

// iconPNG renders the tray icon: a white screen on a blue square.
func iconPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	blue := color.NRGBA{R: 0x1E, G: 0x90, B: 0xFF, A: 0xFF}
	white := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	for y := 8; y < 56; y++ {
		for x := 8; x < 56; x++ {
			img.SetNRGBA(x, y, blue)
		}
	}
	for y := 24; y < 40; y++ {
		for x := 20; x < 44; x++ {
			img.SetNRGBA(x, y, white)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// Noop is the tray fallback: no icon, no menu. Run parks until Stop so the
// tray goroutine has the same shape either way.
type Noop struct {
	stop     chan struct{}
	stopOnce sync.Once
}

// Run blocks until Stop.
func (n *Noop) Run(handler interfaces.TrayHandler) { <-n.stop }

// SetActive does nothing.
func (n *Noop) SetActive(active bool) {}

// Stop releases Run. Idempotent.
func (n *Noop) Stop() {
	n.stopOnce.Do(func() { close(n.stop) })
}

// Available reports that no icon is shown.
func (n *Noop) Available() bool { return false }
