package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/config"
	"github.com/alswo471/screensaver/pkg/display"
	"github.com/alswo471/screensaver/pkg/idle"
	"github.com/alswo471/screensaver/pkg/interfaces"
	"github.com/alswo471/screensaver/pkg/notify"
	"github.com/alswo471/screensaver/pkg/session"
	"github.com/alswo471/screensaver/pkg/surface"
	"github.com/alswo471/screensaver/pkg/tray"
	"github.com/alswo471/screensaver/pkg/ui"
	"github.com/alswo471/screensaver/pkg/watcher"
)

// Options are the startup choices made from flags and environment.
type Options struct {
	TrayEnabled  bool
	SettingsPort int
}

// Dependencies holds all the dependencies for the application.
type Dependencies struct {
	Store        *config.Store
	Loop         *session.Loop
	IdleDetector interfaces.IdleDetector
	Displays     interfaces.DisplayEnumerator
	Surfaces     interfaces.SurfaceProvider
	Notifier     interfaces.Notifier
	Tray         interfaces.TrayService
	Settings     *ui.Server
	Session      *session.Session
	Watcher      *watcher.Watcher

	quit chan struct{}
}

// realClock backs the session with wall-clock time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewDependencies creates all dependencies with the given configuration.
func NewDependencies(store *config.Store, opts Options) (*Dependencies, error) {
	deps := &Dependencies{
		Store: store,
		quit:  make(chan struct{}),
	}

	deps.Loop = session.NewLoop()
	deps.IdleDetector = idle.NewDetector()
	deps.Displays = display.NewEnumerator()
	deps.Notifier = notify.NewNotifier()
	deps.Tray = tray.NewService(opts.TrayEnabled)

	surfaces, err := surface.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create surface provider: %w", err)
	}
	deps.Surfaces = surfaces

	deps.Settings = ui.NewServer(store, nil, opts.SettingsPort)

	deps.Session = session.New(
		deps.Loop,
		store.Get,
		deps.Surfaces,
		deps.Displays,
		realClock{},
		deps.Notifier,
		deps.Settings,
	)
	deps.Session.SetTrayAvailable(deps.Tray.Available())
	deps.Session.SetStateListener(deps.Tray.SetActive)
	deps.Settings.SetSession(deps.Session)

	deps.Watcher = watcher.New(deps.IdleDetector, store.Get, deps.Session)

	return deps, nil
}

// Close cleans up all dependencies.
func (d *Dependencies) Close() {
	d.Watcher.Stop()
	d.Session.Exit()
	d.Session.Close()
	d.Settings.Stop()
	d.Tray.Stop()
	d.Loop.Stop()
	if closer, ok := d.Surfaces.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Application ties the run loop, watcher, tray and settings page together.
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies.
func NewApplication(deps *Dependencies) *Application {
	return &Application{deps: deps}
}

// Run starts every component and blocks until Stop or a tray Quit.
func (a *Application) Run() error {
	d := a.deps

	go d.Loop.Run()
	d.Session.Start()
	d.Watcher.Start()
	go d.Tray.Run(a)

	if err := d.Settings.Start(); err != nil {
		return err
	}

	cfg := d.Store.Get()
	if !cfg.StartInTray {
		d.Settings.Open()
	} else if !d.Tray.Available() {
		log.Info("start_in_tray set but no tray available, staying in background")
	}

	<-d.quit
	return nil
}

// Stop requests shutdown.
func (a *Application) Stop() {
	select {
	case <-a.deps.quit:
	default:
		close(a.deps.quit)
	}
}

// OnOpenSettings implements interfaces.TrayHandler.
func (a *Application) OnOpenSettings() {
	a.deps.Settings.Open()
}

// OnRunNow implements interfaces.TrayHandler.
func (a *Application) OnRunNow() {
	// Activate posts onto the session loop; nothing here touches session
	// state from the tray goroutine.
	a.deps.Session.Activate(false)
}

// OnQuit implements interfaces.TrayHandler.
func (a *Application) OnQuit() {
	a.Stop()
}
