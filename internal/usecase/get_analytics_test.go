package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/analytics"
	"github.com/xavierca1/ligue-leads/internal/entity"
)

var pipelineBuckets = []analytics.Bucket{
	{Stage: entity.StageWon, Source: entity.SourceReferral, Count: 1, Value: 600},
	{Stage: entity.StageLost, Source: entity.SourceWebsite, Count: 1, Value: 900},
	{Stage: entity.StageNew, Source: entity.SourceWebsite, Count: 2, Value: 500},
}

func TestGetAnalyticsWithoutCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("Buckets", ctx).Return(pipelineBuckets, nil)

	m, err := NewGetAnalyticsUseCase(repo, nil, discardLogger()).Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), m.TotalLeads)
	assert.Equal(t, 1100.0, m.TotalValue)
	assert.Equal(t, 25.0, m.ConversionRate)
	assert.Equal(t, 600.0, m.AverageDealSize)
	assert.Len(t, m.LeadsByStage, len(entity.Stages))
}

func TestGetAnalyticsCacheHit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	cache := new(MockMetricsCache)
	cached := &analytics.Metrics{TotalLeads: 42}

	cache.On("Version", ctx).Return(int64(7), nil)
	cache.On("Get", ctx, int64(7)).Return(cached, nil)

	m, err := NewGetAnalyticsUseCase(repo, cache, discardLogger()).Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), m.TotalLeads)
	repo.AssertNotCalled(t, "Buckets", mock.Anything)
}

func TestGetAnalyticsCacheMissStoresUnderReadVersion(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	cache := new(MockMetricsCache)

	repo.On("Buckets", ctx).Return(pipelineBuckets, nil)
	cache.On("Version", ctx).Return(int64(3), nil)
	cache.On("Get", ctx, int64(3)).Return(nil, nil)
	cache.On("Set", ctx, int64(3), mock.MatchedBy(func(m analytics.Metrics) bool {
		return m.TotalLeads == 4
	})).Return(nil)

	m, err := NewGetAnalyticsUseCase(repo, cache, discardLogger()).Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), m.TotalLeads)
	cache.AssertExpectations(t)
}

func TestGetAnalyticsCacheDownFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	cache := new(MockMetricsCache)

	repo.On("Buckets", ctx).Return(pipelineBuckets, nil)
	cache.On("Version", ctx).Return(int64(0), errors.New("connection refused"))

	m, err := NewGetAnalyticsUseCase(repo, cache, discardLogger()).Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), m.TotalLeads)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAnalyticsStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	repo.On("Buckets", ctx).Return(nil, &entity.StoreUnavailableError{Store: "postgres", Err: errors.New("timeout")})

	_, err := NewGetAnalyticsUseCase(repo, nil, discardLogger()).Execute(ctx)

	assert.True(t, entity.IsStoreUnavailable(err))
}

func TestGetAnalyticsLogsUnknownEnumBuckets(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLeadRepository)
	buckets := append([]analytics.Bucket{
		{Stage: "Archived", Source: entity.SourceWebsite, Count: 3, Value: 300},
	}, pipelineBuckets...)
	repo.On("Buckets", ctx).Return(buckets, nil)

	log, hook := logtest.NewNullLogger()
	m, err := NewGetAnalyticsUseCase(repo, nil, log).Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), m.TotalLeads)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, entity.Stage("Archived"), entry.Data["stage"])
	assert.Equal(t, int64(3), entry.Data["count"])
	assert.Len(t, hook.AllEntries(), 1)
}
