package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typerace/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typerace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rec := model.SessionRecord{
		StartedAt:         start,
		EndedAt:           start.Add(15 * time.Second),
		Mode:              model.ModeTime,
		TestType:          model.TimeTest(15),
		Lang:              "en",
		WPM:               64,
		Accuracy:          95.5,
		WordsDone:         17,
		CorrectWords:      16,
		CorrectKeystrokes: 86,
		TotalKeystrokes:   90,
		Errors:            4,
		DurationMs:        15000,
		Samples: []model.Sample{
			{Second: 0, CPM: 300, Errors: 1},
			{Second: 1, CPM: 360, Errors: 0},
		},
	}
	id, err := st.InsertSession(ctx, rec)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	quote := rec
	quote.Mode = model.ModeQuote
	quote.TestType = model.QuoteTest()
	quote.EndedAt = rec.EndedAt.Add(time.Minute)
	quote.Samples = nil
	if _, err := st.InsertSession(ctx, quote); err != nil {
		t.Fatalf("insert quote session: %v", err)
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 2 || all[0].SessionID != id {
		t.Fatalf("unexpected sessions: %+v", all)
	}
	if all[0].WPM != 64 || all[0].Accuracy != 95.5 || all[0].Mode != "time" {
		t.Fatalf("unexpected first session: %+v", all[0])
	}

	onlyQuote, err := st.ListSessions(ctx, model.StatsConfig{Mode: "quote"})
	if err != nil {
		t.Fatalf("list quote sessions: %v", err)
	}
	if len(onlyQuote) != 1 || onlyQuote[0].Mode != "quote" {
		t.Fatalf("expected one quote session, got %+v", onlyQuote)
	}

	samples, err := st.ListSamples(ctx, id)
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(samples) != 2 || samples[1].CPM != 360 || samples[0].Errors != 1 {
		t.Fatalf("unexpected samples: %+v", samples)
	}
}

func TestFirstUnfinishedLevel(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	level, err := st.FirstUnfinishedLevel(ctx, 4, 20, 95)
	if err != nil {
		t.Fatalf("first level: %v", err)
	}
	if level != 0 {
		t.Fatalf("expected level 0 with no results, got %d", level)
	}

	if err := st.SavePracticeResult(ctx, 0, 35, 98, time.Minute, now); err != nil {
		t.Fatalf("save result: %v", err)
	}
	if err := st.SavePracticeResult(ctx, 1, 35, 80, time.Minute, now); err != nil {
		t.Fatalf("save result: %v", err)
	}
	level, err = st.FirstUnfinishedLevel(ctx, 4, 20, 95)
	if err != nil {
		t.Fatalf("first level: %v", err)
	}
	if level != 1 {
		t.Fatalf("expected level 1 after failing it, got %d", level)
	}

	for l := 1; l < 4; l++ {
		if err := st.SavePracticeResult(ctx, l, 40, 99, time.Minute, now); err != nil {
			t.Fatalf("save result: %v", err)
		}
	}
	level, err = st.FirstUnfinishedLevel(ctx, 4, 20, 95)
	if err != nil {
		t.Fatalf("first level: %v", err)
	}
	if level != 3 {
		t.Fatalf("expected last level when all passed, got %d", level)
	}
}
