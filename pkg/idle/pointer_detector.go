//go:build linux || darwin

package idle

import (
	"sync"
	"time"

	"github.com/go-vgo/robotgo"
)

// PointerDetector infers idleness from pointer movement: a background
// sampler records the last time the pointer position changed. Keyboard-only
// activity is invisible to it, so it only serves as a fallback when no
// native idle query exists.
type PointerDetector struct {
	mu           sync.Mutex
	lastPos      [2]int
	lastActivity time.Time

	sampleEvery time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewPointerDetector creates and starts a pointer-polling idle detector.
func NewPointerDetector() *PointerDetector {
	x, y := robotgo.GetMousePos()
	d := &PointerDetector{
		lastPos:      [2]int{x, y},
		lastActivity: time.Now(),
		sampleEvery:  time.Second,
		stop:         make(chan struct{}),
	}
	go d.sample()
	return d
}

// IdleSeconds returns the seconds since the pointer last moved.
func (d *PointerDetector) IdleSeconds() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Since(d.lastActivity).Seconds()
}

// Stop terminates the background sampler.
func (d *PointerDetector) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

func (d *PointerDetector) sample() {
	ticker := time.NewTicker(d.sampleEvery)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			x, y := robotgo.GetMousePos()
			d.mu.Lock()
			if x != d.lastPos[0] || y != d.lastPos[1] {
				d.lastPos = [2]int{x, y}
				d.lastActivity = time.Now()
			}
			d.mu.Unlock()
		}
	}
}
