package session

import (
	"testing"
	"time"
)

func TestRestartGuardDoublePress(t *testing.T) {
	var g RestartGuard
	if g.Press(t0) {
		t.Fatalf("single press must not restart")
	}
	if !g.Press(t0.Add(500 * time.Millisecond)) {
		t.Fatalf("second press within the window should restart")
	}
	if g.Press(t0.Add(800 * time.Millisecond)) {
		t.Fatalf("third press inside the window should be ignored")
	}
	if g.Press(t0.Add(1200 * time.Millisecond)) {
		t.Fatalf("press after the window should only arm")
	}
	if !g.Press(t0.Add(1500 * time.Millisecond)) {
		t.Fatalf("expected a new double press to restart")
	}
}

func TestRestartGuardSlowPresses(t *testing.T) {
	g := RestartGuard{Window: time.Second}
	if g.Press(t0) {
		t.Fatalf("single press must not restart")
	}
	if g.Press(t0.Add(time.Second)) {
		t.Fatalf("press exactly one window later should re-arm, not restart")
	}
	if !g.Press(t0.Add(1900 * time.Millisecond)) {
		t.Fatalf("expected restart relative to the re-armed press")
	}
}
