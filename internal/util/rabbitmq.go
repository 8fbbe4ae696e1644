package util

import (
	"fmt"
	"log"

	"lumina/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQClient(cfg *config.Config) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
	}, nil
}

// GetChannel returns the underlying channel, or nil if the connection is gone
func (r *RabbitMQClient) GetChannel() *amqp.Channel {
	if r == nil || r.conn == nil || r.conn.IsClosed() {
		return nil
	}
	return r.channel
}

// Publish sends a message to an exchange with the given routing key
func (r *RabbitMQClient) Publish(exchange, routingKey string, body []byte) error {
	channel := r.GetChannel()
	if channel == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	return channel.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

// Close closes the channel and connection
func (r *RabbitMQClient) Close() {
	if r == nil {
		return
	}
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}
}
