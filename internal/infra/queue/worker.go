package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// LeadMailer delivers a notification taken off the queue.
type LeadMailer interface {
	NotifyLead(ctx context.Context, n entity.LeadNotification) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Mailer  LeadMailer
}

func NewWorker(ch Consumer, mailer LeadMailer) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
	}
}

// Start consumes until ctx is cancelled or the delivery channel closes.
// Failed deliveries are rejected without requeue (dead-lettered), so each
// notification is attempted at most once.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	slog.Info("notification worker waiting", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var n entity.LeadNotification
	if err := json.Unmarshal(d.Body, &n); err != nil {
		slog.Error("invalid lead notification payload", "message_id", d.MessageId, "error", err)
		d.Nack(false, false)
		return
	}

	if err := w.Mailer.NotifyLead(ctx, n); err != nil {
		slog.Error("lead notification delivery failed",
			"event_id", n.EventID,
			"client_id", n.ClientID,
			"error", err,
		)
		d.Nack(false, false)
		return
	}

	slog.Info("lead notification delivered", "event_id", n.EventID, "client_id", n.ClientID)
	d.Ack(false)
}
