package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

//go:embed templates/*.html
var templates embed.FS

var wonDealTmpl = template.Must(template.ParseFS(templates, "templates/won_deal.html"))

type messageDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// NewEmailSender sends from `from` to the sales inbox `to` over SMTP.
func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// SendWonDeal notifies the sales inbox that a lead reached Won.
func (s *EmailSender) SendWonDeal(event queue.LeadEvent) error {
	m, err := s.wonDealMessage(event)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}
	return nil
}

func (s *EmailSender) wonDealMessage(event queue.LeadEvent) (*gomail.Message, error) {
	data := WonDealEmailData{
		LeadID:        event.LeadID,
		Name:          event.Name,
		Email:         event.Email,
		Phone:         event.Phone,
		Company:       event.Company,
		AssignedTo:    event.AssignedTo,
		PreviousStage: string(event.PreviousStage),
		Value:         fmt.Sprintf("%.2f", event.Value),
		ClosedAt:      event.OccurredAt.Format(time.RFC1123),
	}

	var body bytes.Buffer
	if err := wonDealTmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Deal won: %s (%s)", event.Company, data.Value))
	m.SetBody("text/html", body.String())
	return m, nil
}
