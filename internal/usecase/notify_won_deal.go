package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// NotifyWonDealUseCase consumes lead events and fans won deals out to the
// sales inbox and the CRM. Everything else is acknowledged untouched.
type NotifyWonDealUseCase struct {
	Mailer WonDealMailer
	CRM    CRMSync
	Log    logrus.FieldLogger
}

func NewNotifyWonDealUseCase(mailer WonDealMailer, crm CRMSync, log logrus.FieldLogger) *NotifyWonDealUseCase {
	return &NotifyWonDealUseCase{Mailer: mailer, CRM: crm, Log: log}
}

func (uc *NotifyWonDealUseCase) HandleLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	if !event.IsWon() {
		return nil
	}

	log := uc.Log.WithFields(logrus.Fields{"lead_id": event.LeadID, "company": event.Company})
	var errs []error

	if uc.Mailer != nil {
		if err := uc.Mailer.SendWonDeal(event); err != nil {
			errs = append(errs, fmt.Errorf("won deal email: %w", err))
		} else {
			log.Info("won deal email sent")
		}
	}

	if uc.CRM != nil {
		crmID, err := uc.CRM.PushWonLead(ctx, event)
		if err != nil {
			errs = append(errs, fmt.Errorf("crm sync: %w", err))
		} else {
			log.WithField("crm_lead_id", crmID).Info("won deal pushed to CRM")
		}
	}

	return errors.Join(errs...)
}
