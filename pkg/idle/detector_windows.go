//go:build windows

package idle

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

// lastInputInfo mirrors the Win32 LASTINPUTINFO structure.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// WindowsDetector reads system idle time from GetLastInputInfo.
type WindowsDetector struct{}

// NewWindowsDetector creates a Windows idle detector.
func NewWindowsDetector() *WindowsDetector {
	return &WindowsDetector{}
}

// IdleSeconds returns the seconds since the last input event, or 0 when
// the query fails.
func (d *WindowsDetector) IdleSeconds() float64 {
	var info lastInputInfo
	info.cbSize = uint32(unsafe.Sizeof(info))

	ret, _, _ := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return 0
	}

	tick, _, _ := procGetTickCount.Call()
	idleMillis := uint32(tick) - info.dwTime
	return float64(idleMillis) / 1000.0
}

func newPlatformDetector() *WindowsDetector {
	return NewWindowsDetector()
}
