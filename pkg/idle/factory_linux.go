//go:build linux

package idle

import (
	"os/exec"

	"github.com/alswo471/screensaver/pkg/interfaces"
)

func newPlatformDetector() interfaces.IdleDetector {
	if _, err := exec.LookPath("xprintidle"); err == nil {
		return NewXprintidleDetector()
	}
	return NewPointerDetector()
}
