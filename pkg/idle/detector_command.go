//go:build linux || darwin

package idle

import (
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CommandDetector shells out to a platform utility that reports idle time.
// Linux uses xprintidle (milliseconds on stdout); macOS parses HIDIdleTime
// (nanoseconds) out of ioreg.
type CommandDetector struct {
	query func() (float64, bool)
}

// IdleSeconds returns the reported idle seconds, or 0 when the query fails.
func (d *CommandDetector) IdleSeconds() float64 {
	seconds, ok := d.query()
	if !ok {
		return 0
	}
	return seconds
}

// NewXprintidleDetector reads idle time from the xprintidle utility.
func NewXprintidleDetector() *CommandDetector {
	return &CommandDetector{query: queryXprintidle}
}

// NewIoregDetector reads idle time from ioreg's HIDIdleTime.
func NewIoregDetector() *CommandDetector {
	return &CommandDetector{query: queryIoreg}
}

func queryXprintidle() (float64, bool) {
	out, err := exec.Command("xprintidle").Output()
	if err != nil {
		log.WithError(err).Debug("xprintidle query failed")
		return 0, false
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(millis) / 1000.0, true
}

func queryIoreg() (float64, bool) {
	out, err := exec.Command("ioreg", "-c", "IOHIDSystem").Output()
	if err != nil {
		log.WithError(err).Debug("ioreg query failed")
		return 0, false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ns, err := strconv.ParseInt(strings.Trim(fields[len(fields)-1], ","), 10, 64)
		if err != nil {
			continue
		}
		return float64(ns) / 1e9, true
	}
	return 0, false
}
