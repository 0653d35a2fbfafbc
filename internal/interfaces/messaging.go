package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

// Сообщения RabbitMQ
type CheckoutMessage struct {
	TransactionID string         `json:"transaction_id"`
	UserKey       string         `json:"user_key"`
	PaymentMethod string         `json:"payment_method"`
	Status        domain.Status  `json:"status"`
	Pricing       domain.Pricing `json:"pricing"`
	ItemCount     int            `json:"item_count"`
	CreatedAt     string         `json:"created_at"`
}

type StatusUpdateMessage struct {
	TransactionID string        `json:"transaction_id"`
	UserKey       string        `json:"user_key"`
	OldStatus     domain.Status `json:"old_status"`
	NewStatus     domain.Status `json:"new_status"`
	ChangedBy     string        `json:"changed_by"`
	Timestamp     time.Time     `json:"timestamp"`
}

type MessagePublisher interface {
	PublishCheckout(ctx context.Context, msg CheckoutMessage) error
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
