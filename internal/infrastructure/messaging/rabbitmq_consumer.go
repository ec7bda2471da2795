package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rafabene/marketplace-backend/internal/domain/ports"
)

// RabbitConsumer consome eventos de domínio de uma fila ligada ao exchange
type RabbitConsumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger ports.Logger
}

// NewRabbitConsumer declara exchange, fila durável e os bindings informados
func NewRabbitConsumer(url, exchange, queue string, keys []string, prefetch int, logger ports.Logger) (*RabbitConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	closeAll := func() {
		_ = ch.Close()
		_ = conn.Close()
	}

	if err := declareExchange(ch, exchange); err != nil {
		closeAll()
		return nil, err
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range keys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			closeAll()
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			closeAll()
			return nil, fmt.Errorf("set qos: %w", err)
		}
	}

	return &RabbitConsumer{conn: conn, ch: ch, queue: q.Name, logger: logger}, nil
}

// Run bloqueia consumindo até o contexto ser cancelado ou o canal fechar.
// Mensagens inválidas são descartadas; falhas do handler voltam para a fila uma vez.
func (c *RabbitConsumer) Run(ctx context.Context, handler ports.EventHandler) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, handler, d)
		}
	}
}

func (c *RabbitConsumer) handle(ctx context.Context, handler ports.EventHandler, d amqp.Delivery) {
	var event ports.DomainEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Warn("discarding malformed event", "routing_key", d.RoutingKey, "error", err)
		_ = d.Nack(false, false)
		return
	}
	if event.Key == "" {
		event.Key = d.RoutingKey
	}

	if err := handler.Handle(ctx, event); err != nil {
		c.logger.Error("event handler failed",
			"key", event.Key,
			"event_id", event.ID,
			"redelivered", d.Redelivered,
			"error", err,
		)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (c *RabbitConsumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
