package session

import "time"

// DefaultRestartWindow is how close two restart presses must be.
const DefaultRestartWindow = time.Second

// RestartGuard turns a double press of the restart key into one restart.
// The zero value uses DefaultRestartWindow.
type RestartGuard struct {
	Window time.Duration

	armed      bool
	first      time.Time
	quietUntil time.Time
}

// Press records a press at now and reports whether it completes a double
// press. After a restart fires, presses are ignored until the window that
// began with the first press has passed.
func (g *RestartGuard) Press(now time.Time) bool {
	window := g.Window
	if window <= 0 {
		window = DefaultRestartWindow
	}
	if now.Before(g.quietUntil) {
		return false
	}
	if g.armed && now.Sub(g.first) < window {
		g.armed = false
		g.quietUntil = g.first.Add(window)
		return true
	}
	g.armed = true
	g.first = now
	return false
}
