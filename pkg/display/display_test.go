package display

import "testing"

func TestMonitorsAlwaysReturnsAtLeastOne(t *testing.T) {
	// With or without a display service, the enumerator must produce a
	// usable rectangle so activation always has something to cover.
	monitors := NewEnumerator().Monitors()

	if len(monitors) == 0 {
		t.Fatal("expected at least one monitor rectangle")
	}
	for i, mon := range monitors {
		if mon.Width <= 0 || mon.Height <= 0 {
			t.Errorf("monitor %d has degenerate size %+v", i, mon)
		}
	}
}
