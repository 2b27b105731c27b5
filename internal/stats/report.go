package stats

import (
	"context"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions    []model.SessionAggregate
	LastSamples []model.Sample
}

// BuildReport loads sessions matching cfg and the samples of the newest one.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	if len(sessions) == 0 {
		return Report{}, nil
	}
	samples, err := st.ListSamples(ctx, sessions[len(sessions)-1].SessionID)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, LastSamples: samples}, nil
}
