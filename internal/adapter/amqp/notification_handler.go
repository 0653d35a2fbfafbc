package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

var ErrInvalidNotification = errors.New("invalid status notification")

// NotificationHandler writes status notifications through to the order
// history of the user they belong to. cache may be nil when the handler runs
// outside the gateway process.
type NotificationHandler struct {
	history *ledger.OrderHistory
	cache   *querycache.Cache
	logger  logger.Logger
}

func NewNotificationHandler(history *ledger.OrderHistory, cache *querycache.Cache, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		history: history,
		cache:   cache,
		logger:  logger,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte) error {
	var msg interfaces.StatusUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse notification", "", nil, err)
		return fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if msg.TransactionID == "" || !msg.NewStatus.Valid() {
		return fmt.Errorf("%w: transaction %q status %q", ErrInvalidNotification, msg.TransactionID, msg.NewStatus)
	}

	details := map[string]interface{}{
		"transaction_id": msg.TransactionID,
		"user_key":       msg.UserKey,
		"new_status":     msg.NewStatus,
	}

	current, ok := h.history.Find(ctx, msg.UserKey, msg.TransactionID)
	if !ok {
		h.logger.Debug("notification_skipped", "Order not in local history", "", details)
		return nil
	}
	// статус только двигается вперед
	if current.Status.Rank() >= msg.NewStatus.Rank() {
		details["current_status"] = current.Status
		h.logger.Debug("notification_stale", "Notification does not advance the order", "", details)
		return nil
	}

	h.history.SetStatus(ctx, msg.UserKey, msg.TransactionID, msg.NewStatus)
	if h.cache != nil {
		h.cache.Invalidate(querycache.ScopeOrders, msg.UserKey)
	}

	details["old_status"] = current.Status
	h.logger.Info("notification_applied", "Order status updated from notification", "", details)
	return nil
}
