package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "typerace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		rec := model.SessionRecord{
			StartedAt:       start,
			EndedAt:         end,
			Mode:            model.ModeWords,
			TestType:        model.WordTest(25),
			Lang:            "en",
			WPM:             float64(50 + i),
			Accuracy:        96,
			TotalKeystrokes: 140,
			DurationMs:      end.Sub(start).Milliseconds(),
			Samples:         []model.Sample{{Second: 0, CPM: float64(240 + i)}},
		}
		id, err := st.InsertSession(ctx, rec)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Lang: "en", Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.LastSamples) != 1 || report.LastSamples[0].CPM != 242 {
		t.Fatalf("expected samples of newest session, got %+v", report.LastSamples)
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, report.Sessions); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderSamples(&buf, report.LastSamples, 40); err != nil {
		t.Fatalf("render samples: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Avg WPM: 51.50", "Best WPM: 52.00", "Avg Accuracy: 96.00%", "Time typed: 1m0s", "Peak CPM: 242"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBuildReportEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typerace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	report, err := BuildReport(context.Background(), st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 0 || report.LastSamples != nil {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
