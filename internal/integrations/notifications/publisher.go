package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("notifications: failed to connect to broker")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notifications: failed to publish event")
)

// Publisher публикует события бронирований в RabbitMQ
// Публикация fire-and-forget: недоставленное событие логируется,
// но не откатывает бизнес-операцию
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      Logger
}

// NewPublisher подключается к брокеру и объявляет topic exchange
func NewPublisher(url, exchange string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: declare exchange: %v", ErrConnect, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      log,
	}, nil
}

// Publish публикует событие с указанным routing key
func (p *Publisher) Publish(ctx context.Context, routingKey string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("%w: routing_key=%s: %v", ErrPublish, routingKey, err)
	}

	return nil
}

// PublishAsync публикует событие, логируя ошибку вместо возврата
// Используется из юзкейсов: сбой брокера не должен ломать бронирование
func (p *Publisher) PublishAsync(ctx context.Context, routingKey string, event BookingEvent) {
	if err := p.Publish(ctx, routingKey, event); err != nil {
		p.log.Error("Failed to publish %s event for booking_id=%d: %v", routingKey, event.BookingID, err)
		return
	}
	p.log.Info("Published %s event for booking_id=%d", routingKey, event.BookingID)
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
