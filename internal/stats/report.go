package stats

import (
	"context"

	"github.com/verte-zerg/wordblitz/internal/model"
	"github.com/verte-zerg/wordblitz/internal/store"
)

const hotKeyLimit = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Patterns []model.PatternCount
	HotKeys  []model.KeyErrorCount
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	patterns, err := st.PatternCounts(ctx)
	if err != nil {
		return Report{}, err
	}
	hotKeys, err := st.KeyErrorCounts(ctx, hotKeyLimit)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions: sessions,
		Patterns: patterns,
		HotKeys:  hotKeys,
	}, nil
}
