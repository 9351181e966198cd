// Package watcher polls the idle detector and triggers screensaver
// activation when the configured timeout is reached.
package watcher

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/config"
	"github.com/alswo471/screensaver/pkg/interfaces"
)

// Activator is the slice of the session the watcher drives.
type Activator interface {
	Activate(preview bool)
	IsActive() bool
}

// Watcher polls idle time on a fixed cadence and fires a single activation
// when idle crosses the timeout. It re-arms once idle time drops back under
// the timeout (user input), so a failed activation does not retrigger every
// poll.
type Watcher struct {
	detector interfaces.IdleDetector
	cfg      func() *config.Config
	target   Activator
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher with the standard 1-second polling cadence.
func New(detector interfaces.IdleDetector, cfg func() *config.Config, target Activator) *Watcher {
	return &Watcher{
		detector: detector,
		cfg:      cfg,
		target:   target,
		interval: time.Second,
		stop:     make(chan struct{}),
	}
}

// Start begins polling on a background goroutine.
func (w *Watcher) Start() {
	go w.run()
}

// Stop terminates polling. Idempotent.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	armed := true
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			timeout := w.cfg().TimeoutSeconds
			if timeout <= 0 {
				continue
			}
			idle := w.detector.IdleSeconds()
			if idle < float64(timeout) {
				armed = true
				continue
			}
			if armed && !w.target.IsActive() {
				armed = false
				log.WithField("idle_seconds", idle).Debug("idle timeout reached")
				w.target.Activate(false)
			}
		}
	}
}
