package mail

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func wonEvent() queue.LeadEvent {
	return queue.LeadEvent{
		Type:          queue.EventLeadStageChanged,
		LeadID:        "lead-9",
		Stage:         entity.StageWon,
		PreviousStage: entity.StageNegotiation,
		Name:          "Rita Lee",
		Email:         "rita@acme.com",
		Company:       "Acme",
		AssignedTo:    "Bruno",
		Value:         1500,
		OccurredAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSendWonDeal(t *testing.T) {
	d := &fakeDialer{}
	s := NewEmailSender("smtp.local", 587, "u", "p", "crm@example.com", "sales@example.com")
	s.dialer = d

	require.NoError(t, s.SendWonDeal(wonEvent()))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"Deal won: Acme (1500.00)"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"sales@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"crm@example.com"}, m.GetHeader("From"))

	var raw bytes.Buffer
	_, err := m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "lead-9")
}

func TestSendWonDealWrapsSMTPError(t *testing.T) {
	s := NewEmailSender("smtp.local", 587, "u", "p", "crm@example.com", "sales@example.com")
	s.dialer = &fakeDialer{err: errors.New("535 auth failed")}

	err := s.SendWonDeal(wonEvent())
	assert.ErrorContains(t, err, "535 auth failed")
}
