package usecase

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/analytics"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/query"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter, sort, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Buckets(ctx context.Context) ([]analytics.Bucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Bucket), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockMetricsCache struct {
	mock.Mock
}

func (m *MockMetricsCache) Version(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMetricsCache) Get(ctx context.Context, version int64) (*analytics.Metrics, error) {
	args := m.Called(ctx, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Metrics), args.Error(1)
}

func (m *MockMetricsCache) Set(ctx context.Context, version int64, metrics analytics.Metrics) error {
	args := m.Called(ctx, version, metrics)
	return args.Error(0)
}

func (m *MockMetricsCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWonDeal(event queue.LeadEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) PushWonLead(ctx context.Context, event queue.LeadEvent) (int, error) {
	args := m.Called(ctx, event)
	return args.Int(0), args.Error(1)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
