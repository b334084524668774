package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AVVKavvk/calls-qa/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes answered questions to ExchangeName.
type Publisher struct {
	conn *amqp.Connection
}

func NewPublisher(conn *amqp.Connection) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) Publish(ctx context.Context, exchange models.Exchange) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	body, err := json.Marshal(exchange)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
