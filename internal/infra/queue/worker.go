package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// LeadEventHandler reacts to one lead event.
type LeadEventHandler interface {
	HandleLeadEvent(ctx context.Context, event LeadEvent) error
}

type Worker struct {
	Channel *amqp.Channel
	Handler LeadEventHandler
	Log     logrus.FieldLogger
}

func NewWorker(ch *amqp.Channel, handler LeadEventHandler, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
		Log:     log.WithField("component", "lead-event-worker"),
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register RabbitMQ consumer: %w", err)
	}

	w.Log.WithField("queue", queueName).Info("worker waiting for lead events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

// Acknowledger is the subset of amqp.Delivery the worker needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	w.process(ctx, d.Body, d)
}

func (w *Worker) process(ctx context.Context, body []byte, ack Acknowledger) {
	var event LeadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// malformed message: dead-letter it instead of blocking the queue
		w.Log.WithError(err).Warn("invalid lead event payload")
		_ = ack.Nack(false, false)
		return
	}

	log := w.Log.WithFields(logrus.Fields{"type": event.Type, "lead_id": event.LeadID})
	if err := w.Handler.HandleLeadEvent(ctx, event); err != nil {
		log.WithError(err).Error("lead event handling failed")
		_ = ack.Nack(false, false)
		return
	}

	log.Debug("lead event processed")
	_ = ack.Ack(false)
}
