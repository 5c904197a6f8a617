package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// Publisher is the part of *amqp.Channel the producer uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer hands lead notifications to RabbitMQ. It satisfies the pipeline's
// Notifier, so the e-mail is sent by the notifier worker instead of inline.
type Producer struct {
	ch Publisher
}

func NewProducer(ch Publisher) *Producer {
	return &Producer{ch: ch}
}

func (p *Producer) NotifyLead(ctx context.Context, n entity.LeadNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal lead notification: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    n.EventID,
			Timestamp:    time.Now(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead notification: %w", err)
	}
	return nil
}
