package session

// ConfigError reports a user-actionable configuration problem found at
// activation time (missing or invalid image source). Activation aborts
// with no partial state; the notice is surfaced to the user.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "screensaver configuration: " + e.Reason
}
