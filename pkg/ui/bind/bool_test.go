package bind

import "testing"

func TestBool(t *testing.T) {
	var calls []bool
	b := NewBool(false, func(v bool) { calls = append(calls, v) })

	tests := []struct {
		name      string
		action    func()
		want      bool
		wantCalls int
	}{
		{"Toggle on", b.Toggle, true, 1},
		{"Set same value is silent", func() { b.Set(true) }, true, 1},
		{"Toggle off", b.Toggle, false, 2},
		{"Set on", func() { b.Set(true) }, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.action()
			if b.Value() != tt.want {
				t.Errorf("Value() = %v; want %v", b.Value(), tt.want)
			}
			if len(calls) != tt.wantCalls {
				t.Errorf("onChange called %d times; want %d", len(calls), tt.wantCalls)
			}
		})
	}
}

// A checkbox and a keyboard shortcut holding the same Bool always agree.
func TestBool_SharedBetweenControls(t *testing.T) {
	paused := NewBool(false, nil)
	checkbox, shortcut := paused, paused

	shortcut.Toggle()
	if !checkbox.Value() {
		t.Error("checkbox should show the state set by the shortcut")
	}
	checkbox.Toggle()
	if shortcut.Value() {
		t.Error("shortcut should see the state set by the checkbox")
	}
}

func TestBool_NilCallback(t *testing.T) {
	b := NewBool(true, nil)
	b.Toggle()
	if b.Value() {
		t.Error("Toggle() should flip the value without a callback")
	}
}
