// Package engine matches keystrokes against a reference text and tracks
// per-character verdicts.
package engine

import "unicode"

// Verdict classifies the outcome at one reference index.
type Verdict int8

// Verdict values.
const (
	Untouched Verdict = iota
	Correct
	Corrected
	Incorrect
)

func (v Verdict) String() string {
	switch v {
	case Untouched:
		return "untouched"
	case Correct:
		return "correct"
	case Corrected:
		return "corrected"
	case Incorrect:
		return "incorrect"
	}
	return "unknown"
}

// EventKind distinguishes typed characters from backspace.
type EventKind int

// Event kinds.
const (
	EventChar EventKind = iota
	EventBackspace
)

// Event is one keystroke delivered to the engine. Control keys are filtered
// by the caller and never reach Apply.
type Event struct {
	Kind EventKind
	Char rune
}

// Char returns a character event.
func Char(r rune) Event { return Event{Kind: EventChar, Char: r} }

// Backspace returns a backspace event.
func Backspace() Event { return Event{Kind: EventBackspace} }

// Delta reports what a single Apply changed.
type Delta struct {
	// Index is the reference index whose verdict was written, or -1.
	Index     int
	Before    Verdict
	After     Verdict
	Advanced  bool
	Retreated bool
	WordDelta int
	Error     bool
	Ignored   bool
}

// Counters are cumulative keystroke tallies for accuracy.
type Counters struct {
	Correct int
	Total   int
	Errors  int
}

// Engine owns the cursor, verdicts and keystroke log for one reference text.
type Engine struct {
	reference []rune
	verdicts  []Verdict
	pos       int
	log       []rune
	wordsDone int
	practice  bool
	counters  Counters
}

// New returns an engine positioned at the start of reference. In practice
// mode an incorrect keystroke holds the cursor until it is corrected.
func New(reference string, practice bool) *Engine {
	e := &Engine{practice: practice}
	e.Rollover(reference)
	return e
}

// Rollover swaps in a new reference text, resetting verdicts and position.
// The keystroke log, word count and counters carry over.
func (e *Engine) Rollover(reference string) {
	e.reference = []rune(reference)
	e.verdicts = make([]Verdict, len(e.reference))
	e.pos = 0
}

// Apply processes one event.
func (e *Engine) Apply(ev Event) Delta {
	switch ev.Kind {
	case EventChar:
		return e.applyChar(ev.Char)
	case EventBackspace:
		return e.applyBackspace()
	}
	return Delta{Index: -1, Ignored: true}
}

func (e *Engine) applyChar(c rune) Delta {
	d := Delta{Index: -1}
	if e.pos >= len(e.reference) {
		d.Ignored = true
		return d
	}
	// A space before the first character of a fresh text is a stray separator.
	if c == ' ' && e.pos == 0 && e.verdicts[0] == Untouched {
		d.Ignored = true
		return d
	}

	expected := e.reference[e.pos]
	before := e.verdicts[e.pos]
	d.Index = e.pos
	d.Before = before

	e.log = append(e.log, c)
	e.counters.Total++
	switch {
	case c == expected && before != Incorrect && before != Corrected:
		e.verdicts[e.pos] = Correct
		e.counters.Correct++
	case c == expected:
		e.verdicts[e.pos] = Corrected
	default:
		e.verdicts[e.pos] = Incorrect
		e.counters.Errors++
		d.Error = true
	}
	d.After = e.verdicts[e.pos]

	if e.practice && d.After == Incorrect {
		return d
	}
	e.pos++
	d.Advanced = true
	if e.atWordEnd(e.pos) {
		e.wordsDone++
		d.WordDelta = 1
	}
	return d
}

func (e *Engine) applyBackspace() Delta {
	d := Delta{Index: -1}
	if len(e.log) == 0 {
		d.Ignored = true
		return d
	}
	if e.pos > 0 && e.atWordEnd(e.pos) && e.wordsDone > 0 {
		e.wordsDone--
		d.WordDelta = -1
	}
	e.log = e.log[:len(e.log)-1]
	if e.pos > 0 {
		e.pos--
		d.Retreated = true
	}
	return d
}

// atWordEnd reports whether pos sits just past the last character of a word:
// the previous rune is not whitespace and pos is at whitespace or the end.
func (e *Engine) atWordEnd(pos int) bool {
	if pos <= 0 || pos > len(e.reference) {
		return false
	}
	if unicode.IsSpace(e.reference[pos-1]) {
		return false
	}
	return pos == len(e.reference) || unicode.IsSpace(e.reference[pos])
}

// Position returns the cursor index, always within [0, len(reference)].
func (e *Engine) Position() int { return e.pos }

// AtEnd reports whether the whole reference has been traversed.
func (e *Engine) AtEnd() bool { return e.pos >= len(e.reference) }

// Len returns the reference length in runes.
func (e *Engine) Len() int { return len(e.reference) }

// Reference returns the current reference text.
func (e *Engine) Reference() string { return string(e.reference) }

// Verdicts returns a copy of the per-character verdicts.
func (e *Engine) Verdicts() []Verdict {
	out := make([]Verdict, len(e.verdicts))
	copy(out, e.verdicts)
	return out
}

// WordsDone returns the cumulative number of credited word boundaries.
func (e *Engine) WordsDone() int { return e.wordsDone }

// LogLen returns the number of keystrokes currently in the log.
func (e *Engine) LogLen() int { return len(e.log) }

// Log returns a copy of the keystroke log.
func (e *Engine) Log() []rune {
	out := make([]rune, len(e.log))
	copy(out, e.log)
	return out
}

// Counters returns the cumulative keystroke tallies.
func (e *Engine) Counters() Counters { return e.counters }
