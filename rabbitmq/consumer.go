package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/AVVKavvk/calls-qa/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consume binds an exclusive queue to ExchangeName and calls handle for
// every exchange until ctx is done or the channel closes. Messages that fail
// to decode or handle are logged and dropped.
func Consume(ctx context.Context, conn *amqp.Connection, handle func(context.Context, models.Exchange) error) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare("", false, false, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log.Printf("[INFO] waiting for exchanges on %s", ExchangeName)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			var exchange models.Exchange
			if err := json.Unmarshal(d.Body, &exchange); err != nil {
				log.Printf("[ERROR] bad exchange message: %v", err)
				continue
			}
			if err := handle(ctx, exchange); err != nil {
				log.Printf("[ERROR] store exchange for %s: %v", exchange.CallID, err)
			}
		}
	}
}
