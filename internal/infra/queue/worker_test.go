package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

type handlerFunc func(context.Context, LeadEvent) error

func (h handlerFunc) HandleLeadEvent(ctx context.Context, e LeadEvent) error { return h(ctx, e) }

func newTestWorker(h LeadEventHandler) *Worker {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewWorker(nil, h, l)
}

func TestProcessAcksHandledEvent(t *testing.T) {
	var got LeadEvent
	w := newTestWorker(handlerFunc(func(_ context.Context, e LeadEvent) error {
		got = e
		return nil
	}))

	lead := &entity.Lead{ID: "lead-3", FirstName: "Rita", LastName: "Lee", Stage: entity.StageWon, Value: 900}
	ev := NewLeadEvent(EventLeadStageChanged, lead)
	ev.PreviousStage = entity.StageProposal
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	ack := &fakeAck{}
	w.process(context.Background(), body, ack)

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, "lead-3", got.LeadID)
	assert.Equal(t, "Rita Lee", got.Name)
	assert.True(t, got.IsWon())
}

func TestProcessDeadLettersMalformedPayload(t *testing.T) {
	called := false
	w := newTestWorker(handlerFunc(func(context.Context, LeadEvent) error {
		called = true
		return nil
	}))

	ack := &fakeAck{}
	w.process(context.Background(), []byte("{not json"), ack)

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.False(t, called)
}

func TestProcessDeadLettersHandlerFailure(t *testing.T) {
	w := newTestWorker(handlerFunc(func(context.Context, LeadEvent) error {
		return errors.New("smtp down")
	}))

	ack := &fakeAck{}
	w.process(context.Background(), []byte(`{"type":"lead.created","lead_id":"x"}`), ack)

	assert.True(t, ack.nacked)
	assert.False(t, ack.acked)
}

func TestIsWonOnlyOnTransition(t *testing.T) {
	lead := &entity.Lead{ID: "l", Stage: entity.StageWon}

	created := NewLeadEvent(EventLeadCreated, lead)
	assert.False(t, created.IsWon())

	same := NewLeadEvent(EventLeadStageChanged, lead)
	same.PreviousStage = entity.StageWon
	assert.False(t, same.IsWon())

	moved := NewLeadEvent(EventLeadStageChanged, lead)
	moved.PreviousStage = entity.StageNegotiation
	assert.True(t, moved.IsWon())
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishLeadEvent(context.Background(), LeadEvent{}))
}
