package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

func wonEvent() queue.LeadEvent {
	ev := queue.NewLeadEvent(queue.EventLeadStageChanged, sampleLead(entity.StageWon))
	ev.PreviousStage = entity.StageNegotiation
	return ev
}

func TestNotifyWonDealSendsEmailAndSyncsCRM(t *testing.T) {
	ctx := context.Background()
	mailer := new(MockMailer)
	crm := new(MockCRM)
	ev := wonEvent()

	mailer.On("SendWonDeal", ev).Return(nil)
	crm.On("PushWonLead", ctx, ev).Return(991, nil)

	err := NewNotifyWonDealUseCase(mailer, crm, discardLogger()).HandleLeadEvent(ctx, ev)

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
	crm.AssertExpectations(t)
}

func TestNotifyWonDealIgnoresOtherEvents(t *testing.T) {
	mailer := new(MockMailer)
	crm := new(MockCRM)
	uc := NewNotifyWonDealUseCase(mailer, crm, discardLogger())

	created := queue.NewLeadEvent(queue.EventLeadCreated, sampleLead(entity.StageWon))
	lost := queue.NewLeadEvent(queue.EventLeadStageChanged, sampleLead(entity.StageLost))
	lost.PreviousStage = entity.StageWon

	assert.NoError(t, uc.HandleLeadEvent(context.Background(), created))
	assert.NoError(t, uc.HandleLeadEvent(context.Background(), lost))
	mailer.AssertNotCalled(t, "SendWonDeal", mock.Anything)
	crm.AssertNotCalled(t, "PushWonLead", mock.Anything, mock.Anything)
}

func TestNotifyWonDealJoinsFailures(t *testing.T) {
	ctx := context.Background()
	mailer := new(MockMailer)
	crm := new(MockCRM)
	ev := wonEvent()

	mailer.On("SendWonDeal", ev).Return(errors.New("smtp refused"))
	crm.On("PushWonLead", ctx, ev).Return(0, errors.New("401"))

	err := NewNotifyWonDealUseCase(mailer, crm, discardLogger()).HandleLeadEvent(ctx, ev)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "smtp refused")
	assert.Contains(t, err.Error(), "crm sync")
}

func TestNotifyWonDealWithoutCollaborators(t *testing.T) {
	err := NewNotifyWonDealUseCase(nil, nil, discardLogger()).HandleLeadEvent(context.Background(), wonEvent())
	assert.NoError(t, err)
}
