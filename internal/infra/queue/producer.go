package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Event types double as routing keys.
const (
	EventLeadCreated      = "lead.created"
	EventLeadUpdated      = "lead.updated"
	EventLeadStageChanged = "lead.stage_changed"
	EventLeadDeleted      = "lead.deleted"
)

type LeadEvent struct {
	Type          string       `json:"type"`
	LeadID        string       `json:"lead_id"`
	Stage         entity.Stage `json:"stage"`
	PreviousStage entity.Stage `json:"previous_stage,omitempty"`

	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Company    string  `json:"company"`
	AssignedTo string  `json:"assigned_to"`
	Value      float64 `json:"value"`

	OccurredAt time.Time `json:"occurred_at"`
}

func NewLeadEvent(eventType string, lead *entity.Lead) LeadEvent {
	return LeadEvent{
		Type:       eventType,
		LeadID:     lead.ID,
		Stage:      lead.Stage,
		Name:       lead.FirstName + " " + lead.LastName,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Company:    lead.Company,
		AssignedTo: lead.AssignedTo,
		Value:      lead.Value,
		OccurredAt: entity.Now(),
	}
}

// IsWon reports a transition into the Won stage.
func (e LeadEvent) IsWon() bool {
	return e.Type == EventLeadStageChanged && e.Stage == entity.StageWon && e.PreviousStage != entity.StageWon
}

type RabbitMQProducer struct {
	mu sync.Mutex
	Ch *amqp.Channel

	// Observe, when set, is told the outcome of every publish.
	Observe func(eventType string, err error)
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadEvent(ctx context.Context, event LeadEvent) error {
	err := p.publish(ctx, event)
	if p.Observe != nil {
		p.Observe(event.Type, err)
	}
	return err
}

func (p *RabbitMQProducer) publish(ctx context.Context, event LeadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode lead event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		event.Type,   // lead.created, lead.stage_changed, ...
		false,        // Mandatory
		false,        // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.LeadID + ":" + event.Type,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %w", err)
	}
	return nil
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishLeadEvent(context.Context, LeadEvent) error { return nil }
