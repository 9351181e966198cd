//go:build !linux

package surface

import (
	"fmt"
	"runtime"

	"github.com/alswo471/screensaver/pkg/interfaces"
	"github.com/alswo471/screensaver/pkg/types"
)

// unsupportedProvider is selected on platforms without an overlay backend.
// CreateSurface always fails, so activation aborts cleanly instead of
// claiming the screen is covered.
type unsupportedProvider struct {
	events chan types.InputEvent
}

func newPlatformProvider() (interfaces.SurfaceProvider, error) {
	return &unsupportedProvider{events: make(chan types.InputEvent)}, nil
}

func (p *unsupportedProvider) CreateSurface(id int, rect types.MonitorRect) (interfaces.Surface, error) {
	return nil, fmt.Errorf("overlay surfaces are not supported on %s", runtime.GOOS)
}

func (p *unsupportedProvider) Events() <-chan types.InputEvent {
	return p.events
}
