package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/analytics"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/query"
)

// LeadRepository is the persistence collaborator. Implementations map their
// connectivity failures to *entity.StoreUnavailableError and unknown ids to
// entity.ErrLeadNotFound.
type LeadRepository interface {
	Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]*entity.Lead, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	Insert(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	// Buckets groups the whole collection by stage and source.
	Buckets(ctx context.Context) ([]analytics.Bucket, error)
}

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error
}

// MetricsCache stores computed analytics under a version that every
// mutation bumps, so an entry computed before a write is never served after it.
type MetricsCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64) (*analytics.Metrics, error)
	Set(ctx context.Context, version int64, m analytics.Metrics) error
	Invalidate(ctx context.Context) error
}

type WonDealMailer interface {
	SendWonDeal(event queue.LeadEvent) error
}

type CRMSync interface {
	PushWonLead(ctx context.Context, event queue.LeadEvent) (int, error)
}
