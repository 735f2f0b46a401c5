package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/analytics"
)

type GetAnalyticsUseCase struct {
	Repo  LeadRepository
	Cache MetricsCache
	Log   logrus.FieldLogger
}

func NewGetAnalyticsUseCase(repo LeadRepository, cache MetricsCache, log logrus.FieldLogger) *GetAnalyticsUseCase {
	return &GetAnalyticsUseCase{Repo: repo, Cache: cache, Log: log}
}

// Execute aggregates the whole collection. Results are cached only when a
// cache is configured, and a cache failure falls back to a fresh computation.
func (uc *GetAnalyticsUseCase) Execute(ctx context.Context) (*analytics.Metrics, error) {
	if uc.Cache == nil {
		return uc.compute(ctx)
	}

	version, err := uc.Cache.Version(ctx)
	if err != nil {
		uc.Log.WithError(err).Warn("analytics cache unavailable")
		return uc.compute(ctx)
	}

	cached, err := uc.Cache.Get(ctx, version)
	if err != nil {
		uc.Log.WithError(err).Warn("analytics cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	m, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.Cache.Set(ctx, version, *m); err != nil {
		uc.Log.WithError(err).Warn("analytics cache write failed")
	}
	return m, nil
}

func (uc *GetAnalyticsUseCase) compute(ctx context.Context) (*analytics.Metrics, error) {
	buckets, err := uc.Repo.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	agg := analytics.Aggregate(buckets)
	for _, b := range agg.Unrecognized {
		uc.Log.WithFields(logrus.Fields{
			"stage":  b.Stage,
			"source": b.Source,
			"count":  b.Count,
		}).Error("leads with an unknown stage or source left out of analytics")
	}
	m := analytics.Compose(agg)
	return &m, nil
}
