package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue is the durable queue events are routed to.
const DefaultQueue = "school.notifications"

// amqpChannel часть *amqp.Channel, которой пользуется паблишер
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc открывает соединение и канал с объявленной очередью
type dialFunc func() (amqpChannel, io.Closer, error)

// RabbitPublisher публикует события в очередь RabbitMQ через default exchange.
// После обрыва соединения канал открывается заново при следующей публикации.
type RabbitPublisher struct {
	mu    sync.Mutex
	dial  dialFunc
	conn  io.Closer
	ch    amqpChannel
	queue string
}

// NewRabbitPublisher подключается к брокеру и объявляет durable очередь
func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	return newRabbitPublisher(queue, func() (amqpChannel, io.Closer, error) {
		return dialQueue(url, queue)
	})
}

func newRabbitPublisher(queue string, dial dialFunc) (*RabbitPublisher, error) {
	p := &RabbitPublisher{dial: dial, queue: queue}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialQueue(url, queue string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	// Durable очередь, объявление идемпотентно
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	return ch, conn, nil
}

// connect вызывается под p.mu либо до публикации паблишера
func (p *RabbitPublisher) connect() error {
	ch, conn, err := p.dial()
	if err != nil {
		return err
	}
	p.ch = ch
	p.conn = conn
	return nil
}

// drop закрывает сломанную сессию, вызывается под p.mu
func (p *RabbitPublisher) drop() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch = nil
	p.conn = nil
}

// Publish отправляет событие как persistent JSON сообщение
func (p *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.drop()
		if err := p.connect(); err != nil {
			return fmt.Errorf("rabbitmq reconnect: %w", err)
		}
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.drop()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return nil
	}

	err := p.ch.Close()
	if cerr := p.conn.Close(); err == nil {
		err = cerr
	}
	p.ch = nil
	p.conn = nil

	return err
}
