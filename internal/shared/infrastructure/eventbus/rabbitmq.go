package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange is the topic exchange all therapytrack events go to.
	Exchange = "therapytrack.events"
	// DefaultQueue is the durable queue the API process consumes from.
	DefaultQueue = "therapytrack.api"
)

func dialTopic(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

// RabbitMQPublisher publishes persistent JSON messages to the exchange.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewRabbitMQPublisher dials url and declares the exchange.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, ch, err := dialTopic(url, Exchange)
	if err != nil {
		return nil, err
	}
	logger.Info("RabbitMQ publisher connected", "exchange", Exchange)
	return &RabbitMQPublisher{conn: conn, channel: ch, logger: logger}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		p.logger.Error("failed to publish message", "routing_key", routingKey, "error", err)
		return err
	}
	p.logger.Debug("message published", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.logger.Warn("error closing channel", "error", err)
	}
	return p.conn.Close()
}

// RabbitMQSubscriber consumes the queue and dispatches to a Router. Each
// registered routing key is bound to the queue.
type RabbitMQSubscriber struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	router  *Router
	logger  *slog.Logger
	running bool
}

// NewRabbitMQSubscriber dials url and declares the exchange and queue.
func NewRabbitMQSubscriber(url, queue string, logger *slog.Logger) (*RabbitMQSubscriber, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if queue == "" {
		queue = DefaultQueue
	}

	conn, ch, err := dialTopic(url, Exchange)
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	logger.Info("RabbitMQ subscriber connected", "queue", queue, "exchange", Exchange)
	return &RabbitMQSubscriber{
		conn:    conn,
		channel: ch,
		queue:   queue,
		router:  NewRouter(logger),
		logger:  logger,
	}, nil
}

// Subscribe registers h and binds its routing keys.
func (s *RabbitMQSubscriber) Subscribe(h Handler) error {
	s.router.Register(h)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range h.RoutingKeys() {
		if err := s.channel.QueueBind(s.queue, key, Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Run consumes until ctx is cancelled. Handler failures are nacked and
// requeued; undecodable messages are acked and dropped.
func (s *RabbitMQSubscriber) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("subscriber already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	msgs, err := s.channel.ConsumeWithContext(ctx, s.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	s.logger.Info("consuming events", "queue", s.queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			s.deliver(ctx, msg)
		}
	}
}

func (s *RabbitMQSubscriber) deliver(ctx context.Context, msg amqp.Delivery) {
	env, err := decodeEnvelope(msg.RoutingKey, msg.Body)
	if err != nil {
		s.logger.Error("dropping undecodable event", "routing_key", msg.RoutingKey, "error", err)
		_ = msg.Ack(false)
		return
	}

	if err := s.router.Dispatch(ctx, env); err != nil {
		if nackErr := msg.Nack(false, true); nackErr != nil {
			s.logger.Error("failed to nack message", "error", nackErr)
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		s.logger.Error("failed to ack message", "error", err)
	}
}

func (s *RabbitMQSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.channel.Close(); err != nil {
		s.logger.Warn("error closing channel", "error", err)
	}
	return s.conn.Close()
}
