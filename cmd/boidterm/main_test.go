package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

const waitTimeout = 2 * time.Second

func newScreen(t *testing.T) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init: %v", err)
	}
	screen.SetSize(80, 24)
	return screen
}

func TestPumpEvents_Forwards(t *testing.T) {
	screen := newScreen(t)
	defer screen.Fini()

	events := make(chan tcell.Event, 1)
	done := make(chan struct{})
	defer close(done)
	go pumpEvents(screen, events, done)

	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	select {
	case ev := <-events:
		key, ok := ev.(*tcell.EventKey)
		if !ok || key.Rune() != 'a' {
			t.Errorf("got %T %v; want the 'a' key", ev, ev)
		}
	case <-time.After(waitTimeout):
		t.Fatal("event was not forwarded")
	}
}

func TestPumpEvents_ExitsWhenNobodyReads(t *testing.T) {
	screen := newScreen(t)

	events := make(chan tcell.Event) // never read
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pumpEvents(screen, events, done)
		close(exited)
	}()

	_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone))

	// the loop has returned: close done, then finalize as main does
	close(done)
	screen.Fini()

	select {
	case <-exited:
	case <-time.After(waitTimeout):
		t.Fatal("event goroutine still blocked after the loop stopped")
	}
}

func TestApp_HandleKeys(t *testing.T) {
	tests := []struct {
		name       string
		ev         *tcell.EventKey
		wantRun    bool
		wantPaused bool
	}{
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false, false},
		{"Esc quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false, false},
		{"Space pauses", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), true, true},
		{"Other keys ignored", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{}
			if got := a.handle(tt.ev); got != tt.wantRun {
				t.Errorf("handle() = %v; want %v", got, tt.wantRun)
			}
			if a.paused != tt.wantPaused {
				t.Errorf("paused = %v; want %v", a.paused, tt.wantPaused)
			}
		})
	}
}
