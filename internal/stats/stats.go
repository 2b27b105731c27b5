// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typerace/internal/engine"
	"github.com/verte-zerg/typerace/internal/model"
)

const sparkChars = " .:-=+*#%@"

const defaultWordLength = 5.0

// CorrectWords counts reference words whose every character is Correct or
// Corrected. Indices missing from verdicts count as Untouched.
func CorrectWords(reference string, verdicts []engine.Verdict) int {
	count := 0
	inWord := false
	wordOK := true
	for i, r := range []rune(reference) {
		if unicode.IsSpace(r) {
			if inWord && wordOK {
				count++
			}
			inWord = false
			wordOK = true
			continue
		}
		inWord = true
		if i >= len(verdicts) {
			wordOK = false
			continue
		}
		if v := verdicts[i]; v != engine.Correct && v != engine.Corrected {
			wordOK = false
		}
	}
	if inWord && wordOK {
		count++
	}
	return count
}

// WPM converts correct words over elapsed time to words per minute.
func WPM(correctWords int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(correctWords) / secs * 60
}

// Accuracy returns correct/total as a percentage, or 0 when nothing was typed.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// AverageWordLength returns the mean word length plus one for the separator,
// or 5 when the text has no words.
func AverageWordLength(reference string) float64 {
	words := strings.Fields(reference)
	if len(words) == 0 {
		return defaultWordLength
	}
	total := 0
	for _, w := range words {
		total += len([]rune(w))
	}
	return float64(total)/float64(len(words)) + 1
}

// EstimateWPM converts a CPM reading to words per minute using avgWordLen.
func EstimateWPM(cpm, avgWordLen float64) float64 {
	if avgWordLen <= 0 {
		avgWordLen = defaultWordLength
	}
	return cpm / avgWordLen
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		out[i] = Mean(values[start:end])
	}
	return out
}

// RenderSummary prints totals for stored sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	var totalMs int64
	bestWPM := 0.0
	for _, s := range sessions {
		totalWPM += s.WPM
		totalAcc += s.Accuracy
		totalMs += s.DurationMs
		bestWPM = math.Max(bestWPM, s.WPM)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Time typed: %s", (time.Duration(totalMs) * time.Millisecond).Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a moving-average WPM sparkline across sessions.
func RenderTrend(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
	}
	wpms = Resample(MovingAverage(wpms, window), width)
	if _, err := fmt.Fprintf(w, "WPM trend (window %d)\n", window); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n\n", Sparkline(wpms))
	return err
}

// RenderSamples prints the per-second speed curve of one session.
func RenderSamples(w io.Writer, samples []model.Sample, width int) error {
	if len(samples) == 0 {
		return nil
	}
	cpm := make([]float64, len(samples))
	var errs float64
	for i, s := range samples {
		cpm[i] = s.CPM
		errs += s.Errors
	}
	lines := []string{
		"Last session",
		fmt.Sprintf("Speed  %s", Sparkline(Resample(cpm, width))),
		fmt.Sprintf("Avg CPM: %.1f  Peak CPM: %.0f  Errors: %.0f", Mean(cpm), peak(cpm), errs),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func peak(values []float64) float64 {
	out := 0.0
	for _, v := range values {
		out = math.Max(out, v)
	}
	return out
}
