package session

import (
	"errors"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alswo471/screensaver/pkg/config"
	"github.com/alswo471/screensaver/pkg/testutil"
	"github.com/alswo471/screensaver/pkg/types"
)

// fixture wires a session to mocks. Tests drive the unexported handlers
// directly so no loop goroutine or real timing is involved.
type fixture struct {
	cfg      *config.Config
	provider *testutil.MockSurfaceProvider
	clock    *testutil.MockClock
	notifier *testutil.MockNotifier
	settings *testutil.MockSettingsWindow
	session  *Session
}

func newFixture(monitors int) *fixture {
	cfg := config.DefaultConfig()

	rects := make([]types.MonitorRect, monitors)
	for i := range rects {
		rects[i] = types.MonitorRect{Left: i * 64, Top: 0, Width: 64, Height: 48}
	}

	f := &fixture{
		cfg:      cfg,
		provider: testutil.NewMockSurfaceProvider(),
		clock:    testutil.NewMockClock(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)),
		notifier: testutil.NewMockNotifier(),
		settings: testutil.NewMockSettingsWindow(false),
	}
	f.provider.SetPointer(&types.Point{X: 100, Y: 100})

	f.session = New(
		NewLoop(),
		func() *config.Config { return f.cfg },
		f.provider,
		testutil.NewMockDisplays(rects...),
		f.clock,
		f.notifier,
		f.settings,
	)
	f.session.SetRand(rand.New(rand.NewSource(1)))
	return f
}

// afterGuard returns an event timestamp past the post-activation settle
// window.
func (f *fixture) afterGuard() time.Time {
	return f.clock.Now().Add(settleGuard + time.Millisecond)
}

func (f *fixture) motion(surfaceID, x, y int, at time.Time) {
	f.session.handleInput(types.InputEvent{
		Kind:      types.Motion,
		SurfaceID: surfaceID,
		Pos:       types.Point{X: x, Y: y},
		Time:      at,
	})
}

func TestActivateCoversEveryMonitor(t *testing.T) {
	f := newFixture(2)

	f.session.activate(false)

	if !f.session.IsActive() {
		t.Fatal("expected session active")
	}
	if !f.session.BackgroundOnly() {
		t.Error("default config without an image should be background-only")
	}
	surfaces := f.provider.Surfaces()
	if len(surfaces) != 2 {
		t.Fatalf("expected 2 surfaces, got %d", len(surfaces))
	}
	for i, surf := range surfaces {
		if surf.FrameCount() == 0 {
			t.Errorf("surface %d never received a frame", i)
		}
	}
}

func TestActivateIsIdempotent(t *testing.T) {
	f := newFixture(1)

	f.session.activate(false)
	f.session.activate(false)

	if got := len(f.provider.Surfaces()); got != 1 {
		t.Errorf("second activate must be a no-op, got %d surfaces", got)
	}
}

func TestExitClosesSurfacesAndIsIdempotent(t *testing.T) {
	f := newFixture(2)
	f.session.activate(false)

	f.session.exit()

	if f.session.IsActive() {
		t.Fatal("expected session idle after exit")
	}
	for i, surf := range f.provider.Surfaces() {
		if !surf.Closed() {
			t.Errorf("surface %d not closed", i)
		}
	}
	if f.session.slides != nil {
		t.Error("slides must be cleared on exit")
	}

	f.session.exit() // no-op
}

func TestKeyAndButtonPressExit(t *testing.T) {
	for _, kind := range []types.InputKind{types.KeyPress, types.ButtonPress} {
		f := newFixture(1)
		f.session.activate(false)

		f.session.handleInput(types.InputEvent{
			Kind: kind, SurfaceID: 0, Time: f.clock.Now(),
		})

		if f.session.IsActive() {
			t.Errorf("%v should exit immediately, even inside the settle window", kind)
		}
	}
}

func TestMotionThreshold(t *testing.T) {
	f := newFixture(1)
	f.session.activate(false) // baseline (100, 100), threshold 10

	f.motion(0, 109, 100, f.afterGuard())
	if !f.session.IsActive() {
		t.Fatal("9px of travel must not exit")
	}

	f.motion(0, 100, 110, f.afterGuard())
	if f.session.IsActive() {
		t.Fatal("10px of travel on either axis must exit")
	}
}

func TestMotionInsideSettleWindowIsIgnored(t *testing.T) {
	f := newFixture(1)
	f.session.activate(false)

	f.motion(0, 500, 500, f.clock.Now().Add(settleGuard/2))
	if !f.session.IsActive() {
		t.Fatal("motion inside the settle window must not exit")
	}

	f.motion(0, 500, 500, f.afterGuard())
	if f.session.IsActive() {
		t.Fatal("the same travel after the settle window must exit")
	}
}

func TestUnsetBaselineEstablishedByFirstMotion(t *testing.T) {
	f := newFixture(1)
	f.provider.SetPointer(nil) // pointer position unavailable at creation
	f.session.activate(false)

	// First motion only records the position.
	f.motion(0, 500, 500, f.afterGuard())
	if !f.session.IsActive() {
		t.Fatal("first motion establishes the baseline, never exits")
	}

	f.motion(0, 509, 500, f.afterGuard())
	if !f.session.IsActive() {
		t.Fatal("small travel from the established baseline must not exit")
	}

	f.motion(0, 511, 500, f.afterGuard())
	if f.session.IsActive() {
		t.Fatal("large travel from the established baseline must exit")
	}
}

func TestBaselinesAreTrackedPerSurface(t *testing.T) {
	f := newFixture(2)
	f.session.activate(false) // both baselines (100, 100)

	f.motion(0, 109, 100, f.afterGuard())
	f.motion(1, 91, 100, f.afterGuard())
	if !f.session.IsActive() {
		t.Fatal("sub-threshold travel on each surface must not exit")
	}

	f.motion(1, 90, 100, f.afterGuard())
	if f.session.IsActive() {
		t.Fatal("threshold travel on the second surface must exit")
	}
}

func TestMotionFromUnknownSurfaceIsIgnored(t *testing.T) {
	f := newFixture(1)
	f.session.activate(false)

	f.motion(99, 0, 0, f.afterGuard())
	if !f.session.IsActive() {
		t.Fatal("events from unknown surfaces must not exit")
	}
}

func TestInputWhileIdleIsIgnored(t *testing.T) {
	f := newFixture(1)
	f.session.handleInput(types.InputEvent{Kind: types.KeyPress, Time: f.clock.Now()})
	if f.session.IsActive() {
		t.Fatal("input while idle must not change state")
	}
}

func TestSlideshowAdvancesAndWraps(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writeTestPNG(t, filepath.Join(dir, name))
	}

	f := newFixture(1)
	f.cfg.Mode = config.ModeFolder
	f.cfg.ImagePath = dir
	f.cfg.Shuffle = false

	f.session.activate(false)

	if f.session.BackgroundOnly() {
		t.Fatal("folder session with images is not background-only")
	}
	if !f.session.slideshowTimer.Pending() {
		t.Fatal("multi-slide session must schedule the slideshow timer")
	}

	surf := f.provider.Surfaces()[0]
	before := surf.FrameCount()

	for _, wantIndex := range []int{1, 2, 0} {
		f.session.nextSlide()
		if got := f.session.slides.Index(); got != wantIndex {
			t.Errorf("slide index = %d, want %d", got, wantIndex)
		}
	}
	if got := surf.FrameCount(); got != before+3 {
		t.Errorf("expected 3 more frames, got %d", got-before)
	}
	if !f.session.slideshowTimer.Pending() {
		t.Error("slideshow timer must reschedule after each advance")
	}
}

func TestSingleSlideSessionHasNoSlideshowTimer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only.png")
	writeTestPNG(t, path)

	f := newFixture(1)
	f.cfg.ImagePath = path
	f.session.activate(false)

	if f.session.slideshowTimer.Pending() {
		t.Error("one slide never needs a slideshow timer")
	}
}

func TestClockOverlayTicks(t *testing.T) {
	f := newFixture(1)
	f.cfg.ClockOverlay = true
	f.session.activate(false)

	if !f.session.clockTimer.Pending() {
		t.Fatal("background-only session with clock overlay must schedule ticks")
	}

	surf := f.provider.Surfaces()[0]
	before := surf.FrameCount()

	f.session.clockTimer.Cancel()
	f.session.clockTick()

	if surf.FrameCount() != before+1 {
		t.Error("tick must render a clock frame on every surface")
	}
	if !f.session.clockTimer.Pending() {
		t.Error("tick must reschedule while the overlay condition holds")
	}
}

func TestClockOverlayStopsWhenDisabledLive(t *testing.T) {
	f := newFixture(1)
	f.cfg.ClockOverlay = true
	f.session.activate(false)

	// Disable via the live configuration, as a settings save would.
	f.cfg.ClockOverlay = false

	surf := f.provider.Surfaces()[0]
	before := surf.FrameCount()

	f.session.clockTimer.Cancel()
	f.session.clockTick()

	if surf.FrameCount() != before {
		t.Error("tick must not render once the overlay is disabled")
	}
	if f.session.clockTimer.Pending() {
		t.Error("tick must not reschedule once the overlay is disabled")
	}
}

func TestClockOverlayNotScheduledWithImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	writeTestPNG(t, path)

	f := newFixture(1)
	f.cfg.ImagePath = path
	f.cfg.ClockOverlay = true
	f.session.activate(false)

	if f.session.clockTimer.Pending() {
		t.Error("clock overlay applies only to background-only sessions")
	}
}

func TestConfigErrorAbortsActivation(t *testing.T) {
	f := newFixture(1)
	f.cfg.AllowBlankSingle = false
	f.cfg.ImagePath = ""

	f.session.activate(false)

	if f.session.IsActive() {
		t.Fatal("activation must abort on a configuration error")
	}
	if got := len(f.provider.Surfaces()); got != 0 {
		t.Errorf("no surfaces may be created on abort, got %d", got)
	}
	if got := f.notifier.Messages(); len(got) != 1 {
		t.Errorf("expected one user notice, got %v", got)
	}
	if f.settings.Hides() != 0 {
		t.Error("settings window must not be hidden on a failed activation")
	}
}

func TestSurfaceFailureAbortsWithoutPartialState(t *testing.T) {
	f := newFixture(2)
	f.provider.SetCreateError(errors.New("no display"))

	f.session.activate(false)

	if f.session.IsActive() {
		t.Fatal("activation must abort when no surface can be created")
	}
	if f.session.slides != nil {
		t.Error("no slideshow state may remain after an aborted activation")
	}
	if f.session.BackgroundOnly() {
		t.Error("background-only flag must be cleared on abort")
	}
}

func TestSettingsHiddenOnActivateButNotInPreview(t *testing.T) {
	f := newFixture(1)
	f.session.activate(false)
	if f.settings.Hides() != 1 {
		t.Errorf("expected settings hidden once, got %d", f.settings.Hides())
	}

	f = newFixture(1)
	f.session.activate(true)
	if f.settings.Hides() != 0 {
		t.Errorf("preview must not hide settings, got %d hides", f.settings.Hides())
	}
}

func TestSettingsRestoredOnExitOnlyWithoutTray(t *testing.T) {
	f := newFixture(1)
	f.session.SetTrayAvailable(false)
	f.session.activate(false)
	f.session.exit()
	if f.settings.Restores() != 1 {
		t.Errorf("expected settings restored once, got %d", f.settings.Restores())
	}

	f = newFixture(1)
	f.session.SetTrayAvailable(true)
	f.session.activate(false)
	f.session.exit()
	if f.settings.Restores() != 0 {
		t.Errorf("tray present: settings must stay hidden, got %d restores", f.settings.Restores())
	}
}

func TestUnreadableImageDegradesToBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(1)
	f.cfg.ImagePath = path
	f.session.activate(false)

	if !f.session.IsActive() {
		t.Fatal("an unreadable image degrades the frame, never the session")
	}
	frame := f.provider.Surfaces()[0].LastFrame()
	if frame == nil {
		t.Fatal("expected a frame")
	}
	if got := frame.NRGBAAt(10, 10); got != (color.NRGBA{A: 0xFF}) {
		t.Errorf("expected background pixel, got %v", got)
	}
}

func TestStateListenerFires(t *testing.T) {
	f := newFixture(1)
	var transitions []bool
	f.session.SetStateListener(func(active bool) { transitions = append(transitions, active) })

	f.session.activate(false)
	f.session.exit()

	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("expected [true false], got %v", transitions)
	}
}
