//go:build darwin

package idle

import (
	"os/exec"

	"github.com/alswo471/screensaver/pkg/interfaces"
)

func newPlatformDetector() interfaces.IdleDetector {
	if _, err := exec.LookPath("ioreg"); err == nil {
		return NewIoregDetector()
	}
	return NewPointerDetector()
}
