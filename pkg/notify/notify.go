// Package notify surfaces user-facing notices, primarily activation
// failures. Platform degradations never reach a dialog; only
// user-actionable configuration problems do.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/interfaces"
)

// LogNotifier writes notices to the log only. It is the fallback when no
// desktop notification mechanism exists.
type LogNotifier struct{}

// Notify implements interfaces.Notifier.
func (LogNotifier) Notify(title, message string) error {
	log.WithField("title", title).Warn(message)
	return nil
}

// DesktopNotifier shells out to the platform notification utility
// (notify-send on Linux, osascript on macOS) and always logs as well.
type DesktopNotifier struct {
	command func(title, message string) *exec.Cmd
}

// NewNotifier picks a desktop notifier when the platform utility exists,
// a log-only notifier otherwise.
func NewNotifier() interfaces.Notifier {
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("notify-send"); err == nil {
			return &DesktopNotifier{command: func(title, message string) *exec.Cmd {
				return exec.Command("notify-send", "--urgency=critical", title, message)
			}}
		}
	case "darwin":
		if _, err := exec.LookPath("osascript"); err == nil {
			return &DesktopNotifier{command: func(title, message string) *exec.Cmd {
				script := fmt.Sprintf("display notification %q with title %q", message, title)
				return exec.Command("osascript", "-e", script)
			}}
		}
	}
	return LogNotifier{}
}

// Notify implements interfaces.Notifier.
func (n *DesktopNotifier) Notify(title, message string) error {
	log.WithField("title", title).Warn(message)
	if err := n.command(title, message).Run(); err != nil {
		return fmt.Errorf("desktop notification failed: %w", err)
	}
	return nil
}
