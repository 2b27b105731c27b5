package stats

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/typerace/internal/engine"
)

func TestCorrectWords(t *testing.T) {
	v := []engine.Verdict{
		engine.Correct, engine.Correct, engine.Correct, engine.Correct,
		engine.Corrected, engine.Correct, engine.Correct, engine.Untouched,
		engine.Correct, engine.Incorrect, engine.Correct,
	}
	if got := CorrectWords("cat dog", v[:7]); got != 2 {
		t.Fatalf("expected corrected characters to count, got %d", got)
	}
	if got := CorrectWords("cat dog ant", v); got != 2 {
		t.Fatalf("expected word with incorrect char to be excluded, got %d", got)
	}
	if got := CorrectWords("cat dog", v[:5]); got != 1 {
		t.Fatalf("expected untouched tail to be excluded, got %d", got)
	}
	if got := CorrectWords("  ", nil); got != 0 {
		t.Fatalf("expected no words, got %d", got)
	}
}

func TestAccuracyZeroKeystrokes(t *testing.T) {
	acc := Accuracy(0, 0)
	if acc != 0 || math.IsNaN(acc) {
		t.Fatalf("expected exactly 0, got %v", acc)
	}
	if got := Accuracy(7, 7); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := Accuracy(3, 4); got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
}

func TestWPM(t *testing.T) {
	if got := WPM(10, 30*time.Second); got != 20 {
		t.Fatalf("expected 20 wpm, got %v", got)
	}
	if got := WPM(10, 0); got != 0 {
		t.Fatalf("expected 0 for zero duration, got %v", got)
	}
}

func TestAverageWordLength(t *testing.T) {
	if got := AverageWordLength("ab abcd"); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
	if got := AverageWordLength("   "); got != 5 {
		t.Fatalf("expected default 5, got %v", got)
	}
	if got := AverageWordLength("héé"); got != 4 {
		t.Fatalf("expected rune-based length, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestResample(t *testing.T) {
	got := Resample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected resample: %v", got)
	}
	if got := Resample([]float64{1, 2}, 10); len(got) != 2 {
		t.Fatalf("expected short series untouched, got %v", got)
	}
}

func TestAggregatorSamplesPerSecond(t *testing.T) {
	start := time.Unix(1000, 0)
	a := NewAggregator()
	if n := a.Tick(start.Add(5*time.Second), 3); n != 0 {
		t.Fatalf("expected no samples before start, got %d", n)
	}

	a.Start(start)
	a.RecordError()
	if n := a.Tick(start.Add(900*time.Millisecond), 4); n != 0 {
		t.Fatalf("expected no sample before a full second, got %d", n)
	}
	if n := a.Tick(start.Add(time.Second), 5); n != 1 {
		t.Fatalf("expected 1 sample, got %d", n)
	}
	if n := a.Tick(start.Add(3500*time.Millisecond), 8); n != 2 {
		t.Fatalf("expected catch-up of 2 samples, got %d", n)
	}
	a.RecordError()
	a.RecordError()
	a.Flush(start.Add(3700*time.Millisecond), 9)

	speed := a.Speed()
	errs := a.Errors()
	wantSpeed := []float64{300, 180, 0, 60}
	wantErrs := []float64{1, 0, 0, 2}
	if len(speed) != len(wantSpeed) || len(errs) != len(wantErrs) {
		t.Fatalf("unexpected series lengths: speed=%v errors=%v", speed, errs)
	}
	for i := range wantSpeed {
		if speed[i] != wantSpeed[i] || errs[i] != wantErrs[i] {
			t.Fatalf("sample %d: expected (%v,%v), got (%v,%v)", i, wantSpeed[i], wantErrs[i], speed[i], errs[i])
		}
	}

	a.Flush(start.Add(10*time.Second), 20)
	if len(a.Speed()) != 4 {
		t.Fatalf("expected flush after stop to be a no-op")
	}
}

func TestAggregatorFlushDropsEmptyBucket(t *testing.T) {
	start := time.Unix(0, 0)
	a := NewAggregator()
	a.Start(start)
	a.Tick(start.Add(2*time.Second), 4)
	a.Flush(start.Add(2*time.Second), 4)
	if got := a.Speed(); len(got) != 2 {
		t.Fatalf("expected no extra sample on an empty bucket, got %v", got)
	}
}

func TestAggregatorBackspaceDoesNotGoNegative(t *testing.T) {
	start := time.Unix(0, 0)
	a := NewAggregator()
	a.Start(start)
	a.Tick(start.Add(time.Second), 5)
	a.Tick(start.Add(2*time.Second), 2)
	if got := a.Speed(); got[1] != 0 {
		t.Fatalf("expected saturated 0 sample, got %v", got)
	}
}
