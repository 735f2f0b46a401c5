package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// ManageLeadUseCase covers the single-record operations: get, create, update, delete.
type ManageLeadUseCase struct {
	Repo      LeadRepository
	Publisher EventPublisher
	Cache     MetricsCache
	Log       logrus.FieldLogger
}

func NewManageLeadUseCase(repo LeadRepository, publisher EventPublisher, cache MetricsCache, log logrus.FieldLogger) *ManageLeadUseCase {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &ManageLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Cache:     cache,
		Log:       log,
	}
}

func (uc *ManageLeadUseCase) Get(ctx context.Context, id string) (*entity.Lead, error) {
	return uc.Repo.FindByID(ctx, id)
}

func (uc *ManageLeadUseCase) Create(ctx context.Context, draft entity.LeadDraft) (*entity.Lead, error) {
	lead, err := entity.NewLead(draft)
	if err != nil {
		return nil, err
	}
	if err := uc.Repo.Insert(ctx, lead); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	uc.afterWrite(ctx, queue.NewLeadEvent(queue.EventLeadCreated, lead))
	return lead, nil
}

func (uc *ManageLeadUseCase) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	before, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lead, err := uc.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	events := []queue.LeadEvent{queue.NewLeadEvent(queue.EventLeadUpdated, lead)}
	if lead.Stage != before.Stage {
		changed := queue.NewLeadEvent(queue.EventLeadStageChanged, lead)
		changed.PreviousStage = before.Stage
		events = append(events, changed)
	}
	uc.afterWrite(ctx, events...)
	return lead, nil
}

func (uc *ManageLeadUseCase) Delete(ctx context.Context, id string) error {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	removed, err := uc.Repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return entity.ErrLeadNotFound
	}

	uc.afterWrite(ctx, queue.NewLeadEvent(queue.EventLeadDeleted, lead))
	return nil
}

// afterWrite runs once the store has committed. The write already succeeded,
// so failures here are logged rather than returned.
func (uc *ManageLeadUseCase) afterWrite(ctx context.Context, events ...queue.LeadEvent) {
	if uc.Cache != nil {
		if err := uc.Cache.Invalidate(ctx); err != nil {
			uc.Log.WithError(err).Error("analytics cache invalidation failed; cached metrics may lag until TTL")
		}
	}

	for _, ev := range events {
		if err := uc.Publisher.PublishLeadEvent(ctx, ev); err != nil {
			uc.Log.WithError(err).WithFields(logrus.Fields{
				"type":    ev.Type,
				"lead_id": ev.LeadID,
			}).Warn("lead event not published")
		}
	}
}
