package rabbitMQ

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Queue interface {
	Publish(ctx context.Context, message interface{}) error
	HealthCheck() error
	Close() error
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	config  RabbitMQConfig
}

type RabbitMQConfig struct {
	URL          string
	QueueName    string
	ExchangeName string
	RetryCount   int
}

func NewRabbitMQ(config RabbitMQConfig) (*RabbitMQ, error) {
	conn, err := dialWithRetry(config.URL, config.RetryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := channel.QueueDeclare(
		config.QueueName, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// With an exchange, other consumers can bind their own queues to the same events.
	if config.ExchangeName != "" {
		err = channel.ExchangeDeclare(config.ExchangeName, "fanout", true, false, false, false, nil)
		if err == nil {
			err = channel.QueueBind(q.Name, "", config.ExchangeName, false, nil)
		}
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare exchange: %w", err)
		}
	}

	logrus.WithField("queue", q.Name).Info("Connected to RabbitMQ")

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		queue:   q,
		config:  config,
	}, nil
}

func dialWithRetry(url string, retries int) (*amqp.Connection, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		conn, err := amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		logrus.Warnf("RabbitMQ dial attempt %d failed: %v", attempt+1, err)
	}
	return nil, lastErr
}

func (r *RabbitMQ) Publish(ctx context.Context, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	exchange, routingKey := "", r.queue.Name
	if r.config.ExchangeName != "" {
		exchange, routingKey = r.config.ExchangeName, ""
	}

	err = r.channel.PublishWithContext(
		ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (r *RabbitMQ) HealthCheck() error {
	if r.conn == nil || r.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	if r.channel == nil || r.channel.IsClosed() {
		return errors.New("rabbitmq channel is closed")
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil {
		errs = append(errs, r.channel.Close())
	}
	if r.conn != nil {
		errs = append(errs, r.conn.Close())
	}
	return errors.Join(errs...)
}
