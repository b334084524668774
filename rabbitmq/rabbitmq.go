package rabbitmq

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the direct exchange answered questions are published to.
const ExchangeName = "exchanges"

// Dial connects to the broker at url.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	log.Println("Rabbitmq connected")
	return conn, nil
}

func declareExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil)
}
