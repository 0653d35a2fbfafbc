package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// HistoryQueue collects status notifications for the history subscriber.
// Durable so updates published while the subscriber is down are kept.
const HistoryQueue = "storefront_history_sync"

const defaultRetryDelay = 5 * time.Second

type consumer struct {
	conn       Connection
	prefetch   int
	logger     logger.Logger
	retryDelay time.Duration
}

func NewConsumer(conn Connection, prefetch int, lgr logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, prefetch: prefetch, logger: lgr, retryDelay: defaultRetryDelay}
}

func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consumeNotifications(ctx, handler)

		// контекст отменен - выходим
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}

		c.logger.Warn("consumer_reconnect", "Notifications consumer disconnected, reconnecting", "", map[string]interface{}{
			"error":       err.Error(),
			"retry_after": c.retryDelay.String(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *consumer) consumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(HistoryQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// битое сообщение не переотправляем
				c.logger.Error("notification_rejected", "Failed to handle notification", "", map[string]interface{}{
					"delivery_tag": msg.DeliveryTag,
				}, err)
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}
}
