package stats

import "time"

// Aggregator collects per-second speed and error samples for a session.
// It is driven by caller-supplied timestamps and never reads the clock.
type Aggregator struct {
	speed  []float64
	errors []float64

	running          bool
	lastSample       time.Time
	charsAtLastTick  int
	errorsThisSecond float64
}

// NewAggregator returns an idle aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Start begins sampling; the first bucket closes one second after now.
func (a *Aggregator) Start(now time.Time) {
	a.running = true
	a.lastSample = now
}

// RecordError adds one error to the in-progress bucket.
func (a *Aggregator) RecordError() {
	a.errorsThisSecond++
}

// Tick closes every whole second elapsed since the last sample and returns
// how many samples were appended. logLen is the current keystroke log length.
func (a *Aggregator) Tick(now time.Time, logLen int) int {
	if !a.running {
		return 0
	}
	n := 0
	for now.Sub(a.lastSample) >= time.Second {
		a.sample(logLen)
		a.lastSample = a.lastSample.Add(time.Second)
		n++
	}
	return n
}

// Flush closes the in-progress bucket even if it is shorter than a second,
// then stops sampling. A bucket with no elapsed time and no activity is dropped.
func (a *Aggregator) Flush(now time.Time, logLen int) {
	if !a.running {
		return
	}
	if now.After(a.lastSample) || logLen != a.charsAtLastTick || a.errorsThisSecond > 0 {
		a.sample(logLen)
	}
	a.running = false
}

func (a *Aggregator) sample(logLen int) {
	chars := logLen - a.charsAtLastTick
	if chars < 0 {
		chars = 0
	}
	a.speed = append(a.speed, float64(chars)*60)
	a.errors = append(a.errors, a.errorsThisSecond)
	a.errorsThisSecond = 0
	a.charsAtLastTick = logLen
}

// Speed returns a copy of the per-second CPM samples.
func (a *Aggregator) Speed() []float64 {
	return append([]float64(nil), a.speed...)
}

// Errors returns a copy of the per-second error samples.
func (a *Aggregator) Errors() []float64 {
	return append([]float64(nil), a.errors...)
}

// PendingErrors returns the errors counted in the open bucket.
func (a *Aggregator) PendingErrors() float64 {
	return a.errorsThisSecond
}
