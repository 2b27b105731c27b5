// Package session drives one typing session: it owns the match engine and
// the metrics aggregator and decides when the session ends.
//
// The controller never reads the clock. Drivers pass the current instant to
// OnKeystroke and OnTick at whatever cadence they run.
package session

import (
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/verte-zerg/typerace/internal/engine"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/stats"
)

// PracticeWords is the length of a practice session in words.
const PracticeWords = 50

// DefaultBatchSize is used when the config leaves the batch size unset.
const DefaultBatchSize = 30

// State is the lifecycle phase of a session.
type State int

// Session states.
const (
	NotStarted State = iota
	Started
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Started:
		return "started"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Source supplies reference texts.
type Source interface {
	NextBatch(words int) string
	Quote() string
	ExternalSummary() string
	PracticeText(level, words int) string
}

// Result holds the final metrics of a finished session.
type Result struct {
	WPM          float64
	Accuracy     float64
	CorrectWords int
	WordsDone    int
	Counters     engine.Counters
	Elapsed      time.Duration
	Speed        []float64
	Errors       []float64
}

// Controller runs a session in one of the modes of model.Mode.
type Controller struct {
	cfg    model.Config
	src    Source
	logger hclog.Logger

	engine *engine.Engine
	agg    *stats.Aggregator
	state  State

	startedAt  time.Time
	finishedAt time.Time
	refWords   int
	banked     int
	batches    int
	result     Result
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a logger for lifecycle tracing.
func WithLogger(l hclog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a session for cfg with its first reference text from src.
func New(cfg model.Config, src Source, opts ...Option) *Controller {
	c := &Controller{
		cfg:    cfg,
		src:    src,
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Restart()
	return c
}

// Restart discards all progress and starts over with a fresh reference.
func (c *Controller) Restart() {
	c.engine = nil
	text := c.initialText()
	c.engine = engine.New(text, c.cfg.Mode == model.ModePractice)
	c.agg = stats.NewAggregator()
	c.state = NotStarted
	c.startedAt = time.Time{}
	c.finishedAt = time.Time{}
	c.refWords = len(strings.Fields(text))
	c.banked = 0
	c.batches = 1
	c.result = Result{}
	c.logger.Debug("session reset", "mode", c.cfg.Mode.String(), "chars", c.engine.Len())
}

func (c *Controller) initialText() string {
	var text string
	switch c.cfg.Mode {
	case model.ModeQuote:
		text = c.src.Quote()
	case model.ModeWiki:
		text = c.src.ExternalSummary()
	case model.ModePractice:
		text = c.src.PracticeText(c.cfg.Level, PracticeWords)
	default:
		text = c.src.NextBatch(c.batchWords())
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("source returned empty text, using word batch", "mode", c.cfg.Mode.String())
		text = c.src.NextBatch(c.batchWords())
	}
	return strings.TrimSpace(text)
}

func (c *Controller) batchWords() int {
	n := c.cfg.BatchSize
	if n <= 0 {
		n = DefaultBatchSize
	}
	if c.cfg.Mode == model.ModeWords && c.cfg.WordTarget > 0 {
		remaining := c.cfg.WordTarget
		if c.engine != nil {
			remaining -= c.engine.WordsDone()
		}
		if remaining > 0 && remaining < n {
			n = remaining
		}
	}
	return n
}

// OnKeystroke applies one filtered input event at instant now.
func (c *Controller) OnKeystroke(ev engine.Event, now time.Time) engine.Delta {
	if c.state == Started {
		c.OnTick(now)
	}
	if c.state == Finished {
		return engine.Delta{Index: -1, Ignored: true}
	}
	d := c.engine.Apply(ev)
	if d.Ignored {
		return d
	}
	if c.state == NotStarted {
		c.state = Started
		c.startedAt = now
		c.agg.Start(now)
		c.logger.Debug("session started", "mode", c.cfg.Mode.String())
	}
	if d.Error {
		c.agg.RecordError()
	}
	c.settle(now)
	return d
}

// OnTick closes elapsed metric buckets and evaluates completion.
func (c *Controller) OnTick(now time.Time) {
	if c.state != Started {
		return
	}
	now = c.clamp(now)
	c.agg.Tick(now, c.engine.LogLen())
	c.settle(now)
}

// clamp caps now at the deadline of a timed session.
func (c *Controller) clamp(now time.Time) time.Time {
	if c.cfg.Mode != model.ModeTime {
		return now
	}
	deadline := c.startedAt.Add(time.Duration(c.cfg.TestTime) * time.Second)
	if now.After(deadline) {
		return deadline
	}
	return now
}

func (c *Controller) settle(now time.Time) {
	if c.complete(now) {
		c.finish(now)
		return
	}
	if c.cfg.Mode.Continuous() && c.engine.AtEnd() {
		c.rollover()
	}
}

func (c *Controller) complete(now time.Time) bool {
	done := c.engine.WordsDone()
	switch c.cfg.Mode {
	case model.ModeTime:
		return now.Sub(c.startedAt) >= time.Duration(c.cfg.TestTime)*time.Second
	case model.ModeWords:
		return done >= c.cfg.WordTarget
	case model.ModeQuote, model.ModeWiki:
		return c.engine.AtEnd() || done >= c.refWords
	case model.ModePractice:
		return done >= PracticeWords || c.engine.AtEnd()
	}
	return false
}

func (c *Controller) rollover() {
	c.banked += stats.CorrectWords(c.engine.Reference(), c.engine.Verdicts())
	c.engine.Rollover(strings.TrimSpace(c.src.NextBatch(c.batchWords())))
	c.batches++
	c.logger.Trace("reference rolled over", "batch", c.batches, "words_done", c.engine.WordsDone())
}

func (c *Controller) finish(now time.Time) {
	c.state = Finished
	c.finishedAt = now
	c.agg.Flush(now, c.engine.LogLen())

	correctWords := c.banked + stats.CorrectWords(c.engine.Reference(), c.engine.Verdicts())
	elapsed := now.Sub(c.startedAt)
	counters := c.engine.Counters()
	c.result = Result{
		WPM:          stats.WPM(correctWords, elapsed),
		Accuracy:     stats.Accuracy(counters.Correct, counters.Total),
		CorrectWords: correctWords,
		WordsDone:    c.engine.WordsDone(),
		Counters:     counters,
		Elapsed:      elapsed,
		Speed:        c.agg.Speed(),
		Errors:       c.agg.Errors(),
	}
	c.logger.Debug("session finished",
		"mode", c.cfg.Mode.String(),
		"wpm", c.result.WPM,
		"accuracy", c.result.Accuracy,
		"elapsed", elapsed,
	)
}

// IsFinished reports whether the session reached its completion condition.
func (c *Controller) IsFinished() bool { return c.state == Finished }

// State returns the lifecycle phase.
func (c *Controller) State() State { return c.state }

// Config returns the settings the session was built with.
func (c *Controller) Config() model.Config { return c.cfg }

// Result returns the final metrics once the session is finished.
func (c *Controller) Result() (Result, bool) {
	if c.state != Finished {
		return Result{}, false
	}
	return c.result, true
}

// Reference returns the current reference text.
func (c *Controller) Reference() string { return c.engine.Reference() }

// Verdicts returns a copy of the current verdicts.
func (c *Controller) Verdicts() []engine.Verdict { return c.engine.Verdicts() }

// Position returns the cursor index into the current reference.
func (c *Controller) Position() int { return c.engine.Position() }

// WordsDone returns the words credited so far across all batches.
func (c *Controller) WordsDone() int { return c.engine.WordsDone() }

// Counters returns the cumulative keystroke tallies.
func (c *Controller) Counters() engine.Counters { return c.engine.Counters() }

// Batches returns how many reference texts this session has used.
func (c *Controller) Batches() int { return c.batches }

// Speed returns the closed per-second CPM samples.
func (c *Controller) Speed() []float64 { return c.agg.Speed() }

// Elapsed returns the running time of the session at now.
func (c *Controller) Elapsed(now time.Time) time.Duration {
	switch c.state {
	case Started:
		return c.clamp(now).Sub(c.startedAt)
	case Finished:
		return c.finishedAt.Sub(c.startedAt)
	}
	return 0
}

// Remaining returns the time left in a timed session, or zero for other modes.
func (c *Controller) Remaining(now time.Time) time.Duration {
	if c.cfg.Mode != model.ModeTime {
		return 0
	}
	left := time.Duration(c.cfg.TestTime)*time.Second - c.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// TestType describes the finished test for leaderboard records.
func (c *Controller) TestType() model.TestType {
	switch c.cfg.Mode {
	case model.ModeTime:
		return model.TimeTest(uint(max(c.cfg.TestTime, 0)))
	case model.ModeWords:
		return model.WordTest(uint(max(c.cfg.WordTarget, 0)))
	case model.ModeQuote:
		return model.QuoteTest()
	case model.ModeWiki:
		return model.WikiTest()
	}
	return model.PracticeTest(uint(max(c.cfg.Level, 0) + 1))
}

// Entry builds the leaderboard entry for a finished session, stamped at.
// It reports false while the session is still running.
func (c *Controller) Entry(at time.Time) (model.LeaderboardEntry, bool) {
	if c.state != Finished {
		return model.LeaderboardEntry{}, false
	}
	return model.LeaderboardEntry{
		WPM:             c.result.WPM,
		Accuracy:        c.result.Accuracy,
		TestType:        c.TestType(),
		TestMode:        c.cfg.Mode.String(),
		WordCount:       uint(c.result.WordsDone),
		DurationSeconds: c.result.Elapsed.Seconds(),
		Timestamp:       at.Format(time.RFC3339),
		Language:        model.Language(c.cfg.Lang),
	}, true
}

// SessionRecord builds the history row for a finished session.
func (c *Controller) SessionRecord() (model.SessionRecord, bool) {
	if c.state != Finished {
		return model.SessionRecord{}, false
	}
	samples := make([]model.Sample, len(c.result.Speed))
	for i, cpm := range c.result.Speed {
		var errs float64
		if i < len(c.result.Errors) {
			errs = c.result.Errors[i]
		}
		samples[i] = model.Sample{Second: i + 1, CPM: cpm, Errors: errs}
	}
	return model.SessionRecord{
		StartedAt:         c.startedAt,
		EndedAt:           c.finishedAt,
		Mode:              c.cfg.Mode,
		TestType:          c.TestType(),
		Lang:              c.cfg.Lang,
		WPM:               c.result.WPM,
		Accuracy:          c.result.Accuracy,
		WordsDone:         c.result.WordsDone,
		CorrectWords:      c.result.CorrectWords,
		CorrectKeystrokes: c.result.Counters.Correct,
		TotalKeystrokes:   c.result.Counters.Total,
		Errors:            c.result.Counters.Errors,
		DurationMs:        c.result.Elapsed.Milliseconds(),
		Samples:           samples,
	}, true
}
