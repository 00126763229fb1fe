package events

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const routingPrefix = "activity."

// Publisher pushes activity log entries to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
	log      *slog.Logger
}

func NewPublisher(conf *config.Config, logger *slog.Logger) (*Publisher, error) {
	if !conf.RabbitMQ.Enabled {
		return nil, nil
	}
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		conf.RabbitMQ.User, conf.RabbitMQ.Password, conf.RabbitMQ.Host, conf.RabbitMQ.Port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err = ch.ExchangeDeclare(conf.RabbitMQ.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: conf.RabbitMQ.Exchange,
		log:      logger.With(sl.Module("events")),
	}, nil
}

// RoutingKey is "activity.<entity>.<action>", lower case.
func RoutingKey(log *entity.ActivityLog) string {
	return fmt.Sprintf("%s%s.%s", routingPrefix, strings.ToLower(log.Entity), log.Action)
}

func (p *Publisher) PublishActivity(ctx context.Context, log *entity.ActivityLog) error {
	body, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(log),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    log.ID,
			Timestamp:    log.Timestamp,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
