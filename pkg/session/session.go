package session

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/config"
	"github.com/alswo471/screensaver/pkg/interfaces"
	"github.com/alswo471/screensaver/pkg/render"
	"github.com/alswo471/screensaver/pkg/types"
)

// State is the session lifecycle state. There are no intermediate states;
// activation and teardown each complete within a single loop task.
type State int

const (
	// StateIdle means no overlay surfaces exist.
	StateIdle State = iota
	// StateActive means the screensaver covers every monitor.
	StateActive
)

// settleGuard suppresses motion-triggered exits (only) for a short window
// after activation, absorbing pointer jitter while surfaces appear.
const settleGuard = 200 * time.Millisecond

// ConfigProvider returns the live configuration. The session copies it
// into an immutable snapshot at activation time.
type ConfigProvider func() *config.Config

// Session orchestrates the screensaver: it owns the per-monitor overlay
// surfaces, the activation/exit state machine, input-baseline tracking and
// the slideshow/clock timers. All fields below the loop are owned by the
// loop goroutine.
type Session struct {
	loop     *Loop
	cfg      ConfigProvider
	surfaces interfaces.SurfaceProvider
	displays interfaces.DisplayEnumerator
	clock    interfaces.Clock
	notifier interfaces.Notifier
	settings interfaces.SettingsWindow
	rng      *rand.Rand

	trayAvailable bool
	onStateChange func(active bool)

	state          State
	snapshot       config.Config
	slides         *Slideshow
	backgroundOnly bool
	live           []interfaces.Surface
	baselines      map[int]*types.Point
	activatedAt    time.Time

	slideshowTimer *Timer
	clockTimer     *Timer

	// Mirrors for cross-goroutine reads.
	activeFlag  atomic.Bool
	bgOnlyFlag  atomic.Bool
	pumpStarted atomic.Bool
	pumpStop    chan struct{}
	pumpOnce    sync.Once
}

// New creates a session bound to the given run loop and collaborators.
func New(
	loop *Loop,
	cfg ConfigProvider,
	surfaces interfaces.SurfaceProvider,
	displays interfaces.DisplayEnumerator,
	clock interfaces.Clock,
	notifier interfaces.Notifier,
	settings interfaces.SettingsWindow,
) *Session {
	s := &Session{
		loop:      loop,
		cfg:       cfg,
		surfaces:  surfaces,
		displays:  displays,
		clock:     clock,
		notifier:  notifier,
		settings:  settings,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		baselines: make(map[int]*types.Point),
		pumpStop:  make(chan struct{}),
	}
	s.slideshowTimer = loop.NewTimer(s.nextSlide)
	s.clockTimer = loop.NewTimer(s.clockTick)
	return s
}

// SetTrayAvailable records whether a tray icon exists; it decides whether
// the settings window is restored on exit.
func (s *Session) SetTrayAvailable(available bool) {
	s.trayAvailable = available
}

// SetStateListener registers a callback invoked on the loop after every
// state transition.
func (s *Session) SetStateListener(fn func(active bool)) {
	s.onStateChange = fn
}

// SetRand replaces the shuffle source. Tests use a fixed seed.
func (s *Session) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Start begins consuming surface input events. Idempotent.
func (s *Session) Start() {
	if !s.pumpStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		for {
			select {
			case <-s.pumpStop:
				return
			case ev, ok := <-s.surfaces.Events():
				if !ok {
					return
				}
				s.loop.Post(func() { s.handleInput(ev) })
			}
		}
	}()
}

// Close stops the input pump. Idempotent.
func (s *Session) Close() {
	s.pumpOnce.Do(func() { close(s.pumpStop) })
}

// Activate requests activation from any goroutine.
func (s *Session) Activate(preview bool) {
	s.loop.Post(func() { s.activate(preview) })
}

// Exit requests teardown from any goroutine.
func (s *Session) Exit() {
	s.loop.Post(func() { s.exit() })
}

// IsActive reports whether the screensaver currently covers the screens.
func (s *Session) IsActive() bool {
	return s.activeFlag.Load()
}

// BackgroundOnly reports whether the current (or would-be) session shows
// only the background color. The surrounding UI uses it to warn about a
// missing image.
func (s *Session) BackgroundOnly() bool {
	return s.bgOnlyFlag.Load()
}

// activate runs on the loop. No-op when already active. On a ConfigError
// the user is notified, no partial state remains, and the state stays Idle.
func (s *Session) activate(preview bool) {
	if s.state == StateActive {
		return
	}

	snapshot := *s.cfg()
	snapshot.Clamp()

	slides, backgroundOnly, err := resolveSlides(&snapshot)
	if err != nil {
		log.WithError(err).Warn("activation aborted")
		if s.notifier != nil {
			_ = s.notifier.Notify("Screensaver", err.Error())
		}
		return
	}

	s.snapshot = snapshot
	s.slides = NewSlideshow(slides)
	if snapshot.Mode == config.ModeFolder && snapshot.Shuffle {
		s.slides.Shuffle(s.rng)
	}
	s.backgroundOnly = backgroundOnly
	s.bgOnlyFlag.Store(backgroundOnly)
	s.activatedAt = s.clock.Now()
	s.baselines = make(map[int]*types.Point)

	// Surfaces deliver input as soon as each one exists; a key press on an
	// early surface while later ones are still being built is a valid exit.
	for i, mon := range s.displays.Monitors() {
		surf, err := s.surfaces.CreateSurface(i, mon)
		if err != nil {
			log.WithError(err).WithField("monitor", i).Error("failed to create overlay surface")
			continue
		}
		s.live = append(s.live, surf)
		if pos, ok := surf.PointerPosition(); ok {
			p := pos
			s.baselines[surf.ID()] = &p
		} else {
			// Unset baseline: the first motion event seen establishes it
			// instead of triggering an exit off a stale cursor read.
			s.baselines[surf.ID()] = nil
		}
	}

	if len(s.live) == 0 {
		// Platform could not give us a single window; leave no partial
		// state behind and stay idle.
		log.Error("no overlay surfaces could be created, activation aborted")
		s.slides = nil
		s.baselines = make(map[int]*types.Point)
		s.backgroundOnly = false
		s.bgOnlyFlag.Store(false)
		return
	}

	s.renderCurrent()

	if !preview && s.settings != nil {
		s.settings.Hide()
	}

	if !s.backgroundOnly && s.slides.Len() > 1 {
		s.slideshowTimer.Schedule(s.slideInterval())
	} else if s.backgroundOnly && snapshot.ClockOverlay {
		s.clockTimer.Schedule(time.Second)
	}

	s.state = StateActive
	s.activeFlag.Store(true)
	log.WithFields(log.Fields{
		"surfaces":        len(s.live),
		"slides":          s.slides.Len(),
		"background_only": s.backgroundOnly,
		"preview":         preview,
	}).Info("screensaver activated")
	if s.onStateChange != nil {
		s.onStateChange(true)
	}
}

// exit runs on the loop. No-op when already idle. Cancels both timers,
// destroys every surface and clears all per-session state.
func (s *Session) exit() {
	if s.state == StateIdle {
		return
	}

	s.slideshowTimer.Cancel()
	s.clockTimer.Cancel()

	for _, surf := range s.live {
		surf.Close()
	}
	s.live = nil
	s.slides = nil
	s.baselines = make(map[int]*types.Point)
	s.backgroundOnly = false
	s.bgOnlyFlag.Store(false)

	s.state = StateIdle
	s.activeFlag.Store(false)
	log.Info("screensaver exited")

	// Without a tray the settings window is the only way back in. The
	// restore is idempotent and never force-raises a visible window.
	if !s.trayAvailable && s.settings != nil && !s.settings.Visible() {
		s.settings.Restore()
	}

	if s.onStateChange != nil {
		s.onStateChange(false)
	}
}

// handleInput runs on the loop for every surface input event.
func (s *Session) handleInput(ev types.InputEvent) {
	if s.state != StateActive {
		return
	}

	switch ev.Kind {
	case types.KeyPress, types.ButtonPress:
		s.exit()

	case types.Motion:
		// The settle guard applies to motion only.
		if ev.Time.Sub(s.activatedAt) < settleGuard {
			return
		}
		base, known := s.baselines[ev.SurfaceID]
		if !known {
			return
		}
		if base == nil {
			p := ev.Pos
			s.baselines[ev.SurfaceID] = &p
			return
		}
		dx := abs(ev.Pos.X - base.X)
		dy := abs(ev.Pos.Y - base.Y)
		if dx >= s.snapshot.MouseMoveExitPixels || dy >= s.snapshot.MouseMoveExitPixels {
			s.exit()
		}
	}
}

// nextSlide runs on the loop when the slideshow timer fires.
func (s *Session) nextSlide() {
	if s.state != StateActive {
		return
	}
	s.slides.Advance()
	s.renderCurrent()
	if s.slides.Len() > 1 {
		s.slideshowTimer.Schedule(s.slideInterval())
	}
}

// clockTick runs on the loop once a second while the clock overlay is up.
// The background-only + clock-overlay condition is re-read from the live
// configuration each tick; when it no longer holds the timer simply does
// not reschedule.
func (s *Session) clockTick() {
	if s.state != StateActive {
		return
	}
	if !s.backgroundOnly || !s.cfg().ClockOverlay {
		return
	}

	now := s.clock.Now()
	bg := s.snapshot.BackgroundColor()
	for _, surf := range s.live {
		b := surf.Bounds()
		surf.SetFrame(render.ClockFrame(now, b.Width, b.Height, bg))
	}
	s.clockTimer.Schedule(time.Second)
}

// renderCurrent paints the current slide onto every surface. A decode
// failure degrades that frame to background-only; the session continues.
func (s *Session) renderCurrent() {
	if s.slides == nil || s.slides.Len() == 0 {
		return
	}

	slide := s.slides.Current()
	bg := s.snapshot.BackgroundColor()

	if slide.BackgroundOnly {
		for _, surf := range s.live {
			b := surf.Bounds()
			surf.SetFrame(render.Blank(b.Width, b.Height, bg))
		}
		return
	}

	img, err := render.OpenImage(slide.Path)
	if err != nil {
		log.WithError(err).Warn("image unreadable, showing background")
		img = nil
	}
	for _, surf := range s.live {
		b := surf.Bounds()
		surf.SetFrame(render.Render(img, b.Width, b.Height, s.snapshot.ScaleMode, bg))
	}
}

func (s *Session) slideInterval() time.Duration {
	interval := s.snapshot.SlideshowInterval
	if interval < 1 {
		interval = 1
	}
	return time.Duration(interval) * time.Second
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
