// Package testutil provides shared mock implementations of the core
// interfaces for testing.
package testutil

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/alswo471/screensaver/pkg/interfaces"
	"github.com/alswo471/screensaver/pkg/types"
)

// MockIdleDetector is a thread-safe mock implementation of
// interfaces.IdleDetector.
type MockIdleDetector struct {
	mu      sync.Mutex
	seconds float64
}

// NewMockIdleDetector creates a mock idle detector reporting 0.
func NewMockIdleDetector() *MockIdleDetector {
	return &MockIdleDetector{}
}

// IdleSeconds implements the IdleDetector interface.
func (m *MockIdleDetector) IdleSeconds() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seconds
}

// SetIdleSeconds sets the reported idle time.
func (m *MockIdleDetector) SetIdleSeconds(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seconds = seconds
}

// MockDisplays is a mock implementation of interfaces.DisplayEnumerator.
type MockDisplays struct {
	Rects []types.MonitorRect
}

// NewMockDisplays creates a mock enumerator with the given rectangles.
func NewMockDisplays(rects ...types.MonitorRect) *MockDisplays {
	return &MockDisplays{Rects: rects}
}

// Monitors implements the DisplayEnumerator interface.
func (m *MockDisplays) Monitors() []types.MonitorRect {
	return m.Rects
}

// MockSurface records the frames rendered into one fake overlay surface.
type MockSurface struct {
	mu      sync.Mutex
	id      int
	rect    types.MonitorRect
	frames  []*image.NRGBA
	pointer *types.Point
	closed  bool
}

// ID implements the Surface interface.
func (s *MockSurface) ID() int { return s.id }

// Bounds implements the Surface interface.
func (s *MockSurface) Bounds() types.MonitorRect { return s.rect }

// SetFrame implements the Surface interface.
func (s *MockSurface) SetFrame(frame *image.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
}

// PointerPosition implements the Surface interface.
func (s *MockSurface) PointerPosition() (types.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pointer == nil {
		return types.Point{}, false
	}
	return *s.pointer, true
}

// Close implements the Surface interface.
func (s *MockSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close was called.
func (s *MockSurface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FrameCount returns how many frames were rendered into the surface.
func (s *MockSurface) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// LastFrame returns the most recently rendered frame, or nil.
func (s *MockSurface) LastFrame() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// MockSurfaceProvider is a thread-safe mock implementation of
// interfaces.SurfaceProvider. It records every surface it creates and lets
// tests inject input events.
type MockSurfaceProvider struct {
	mu        sync.Mutex
	surfaces  []*MockSurface
	pointer   *types.Point
	createErr error
	events    chan types.InputEvent
}

// NewMockSurfaceProvider creates a mock surface provider.
func NewMockSurfaceProvider() *MockSurfaceProvider {
	return &MockSurfaceProvider{
		events: make(chan types.InputEvent, 64),
	}
}

// CreateSurface implements the SurfaceProvider interface.
func (p *MockSurfaceProvider) CreateSurface(id int, rect types.MonitorRect) (interfaces.Surface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	s := &MockSurface{id: id, rect: rect, pointer: p.pointer}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

// Events implements the SurfaceProvider interface.
func (p *MockSurfaceProvider) Events() <-chan types.InputEvent {
	return p.events
}

// Inject delivers an input event as if a surface had produced it.
func (p *MockSurfaceProvider) Inject(ev types.InputEvent) {
	p.events <- ev
}

// SetPointer sets the pointer position new surfaces report; nil means
// "position unavailable".
func (p *MockSurfaceProvider) SetPointer(pos *types.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pointer = pos
}

// SetCreateError makes CreateSurface fail.
func (p *MockSurfaceProvider) SetCreateError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createErr = err
}

// Surfaces returns a copy of the created surfaces.
func (p *MockSurfaceProvider) Surfaces() []*MockSurface {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]*MockSurface, len(p.surfaces))
	copy(result, p.surfaces)
	return result
}

// MockNotifier records notices.
type MockNotifier struct {
	mu       sync.Mutex
	messages []string
}

// NewMockNotifier creates a mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify implements the Notifier interface.
func (m *MockNotifier) Notify(title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf("%s: %s", title, message))
	return nil
}

// Messages returns a copy of the recorded notices.
func (m *MockNotifier) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.messages))
	copy(result, m.messages)
	return result
}

// MockSettingsWindow tracks hide/restore calls.
type MockSettingsWindow struct {
	mu       sync.Mutex
	visible  bool
	hides    int
	restores int
}

// NewMockSettingsWindow creates a settings window mock in the given
// visibility state.
func NewMockSettingsWindow(visible bool) *MockSettingsWindow {
	return &MockSettingsWindow{visible: visible}
}

// Hide implements the SettingsWindow interface.
func (m *MockSettingsWindow) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
	m.hides++
}

// Restore implements the SettingsWindow interface.
func (m *MockSettingsWindow) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = true
	m.restores++
}

// Visible implements the SettingsWindow interface.
func (m *MockSettingsWindow) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Restores returns how many times Restore was called.
func (m *MockSettingsWindow) Restores() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restores
}

// Hides returns how many times Hide was called.
func (m *MockSettingsWindow) Hides() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hides
}

// MockClock is a manually advanced clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a clock frozen at the given time.
func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

// Now implements the Clock interface.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
