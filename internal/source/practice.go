package source

// Thresholds a practice result must meet for its level to count as passed.
const (
	PassWPM      = 20.0
	PassAccuracy = 95.0
)

// Level is one step of the practice course.
type Level struct {
	Name  string
	Chars string
}

// Levels is the practice course, home row outward.
var Levels = []Level{
	{Name: "index fingers", Chars: "fj"},
	{Name: "home row, inner", Chars: "fjdk"},
	{Name: "home row", Chars: "asdfjkl"},
	{Name: "home row + g h", Chars: "asdfghjkl"},
	{Name: "top row, index", Chars: "asdfghjklru"},
	{Name: "top row, middle", Chars: "asdfghjklruei"},
	{Name: "top row", Chars: "asdfghjklqwertyuiop"},
	{Name: "bottom row, index", Chars: "asdfghjklqwertyuiopvbnm"},
	{Name: "all letters", Chars: "abcdefghijklmnopqrstuvwxyz"},
	{Name: "letters and digits", Chars: "abcdefghijklmnopqrstuvwxyz0123456789"},
}

// ClampLevel maps level into the valid 0-based range.
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level >= len(Levels) {
		return len(Levels) - 1
	}
	return level
}
