package feedback

import "testing"

func TestLoaderStaysVisibleUntilLastRequest(t *testing.T) {
	var toggles []bool
	l := NewLoader(func(v bool) { toggles = append(toggles, v) })
	l.Show()
	l.Show()
	l.Hide()
	if len(toggles) != 1 || !toggles[0] {
		t.Fatalf("loader should be shown once and still visible, got %v", toggles)
	}
	l.Hide()
	if len(toggles) != 2 || toggles[1] {
		t.Fatalf("loader should hide after the last request, got %v", toggles)
	}
	l.Hide()
	if l.Pending() != 0 || len(toggles) != 2 {
		t.Fatalf("extra Hide must be ignored, pending=%d toggles=%v", l.Pending(), toggles)
	}
}
