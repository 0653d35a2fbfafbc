package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/interfaces"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrdersExchange        = "orders_topic"
	NotificationsExchange = "notifications_fanout"
)

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.MessagePublisher {
	return &publisher{conn: conn}
}

// CheckoutRoutingKey lets consumers bind per status, e.g. order.checkout.#
func CheckoutRoutingKey(msg interfaces.CheckoutMessage) string {
	return fmt.Sprintf("order.checkout.%s", msg.Status)
}

func (p *publisher) PublishCheckout(ctx context.Context, msg interfaces.CheckoutMessage) error {
	return p.publish(ctx, OrdersExchange, "topic", CheckoutRoutingKey(msg), msg, amqp.Persistent)
}

func (p *publisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	return p.publish(ctx, NotificationsExchange, "fanout", "", msg, amqp.Transient)
}

func (p *publisher) publish(ctx context.Context, exchange, kind, key string, msg any, mode uint8) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, kind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(ctx, exchange, key, amqp.Publishing{
		DeliveryMode: mode,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

type nopPublisher struct{}

// NopPublisher drops every event; used when RabbitMQ is disabled
func NopPublisher() interfaces.MessagePublisher { return nopPublisher{} }

func (nopPublisher) PublishCheckout(context.Context, interfaces.CheckoutMessage) error {
	return nil
}

func (nopPublisher) PublishStatusUpdate(context.Context, interfaces.StatusUpdateMessage) error {
	return nil
}
