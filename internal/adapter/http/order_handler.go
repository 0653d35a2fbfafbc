package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/app/orders"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

type OrderService interface {
	Checkout(ctx context.Context, paymentMethod string) (domain.Transaction, error)
	List(ctx context.Context, q orders.ListQuery) (orders.Listing, error)
	Track(ctx context.Context, transactionID string) (domain.Transaction, error)
	UpdateStatus(ctx context.Context, key string, next domain.Status) (domain.Transaction, error)
}

type OrderHandler struct {
	service OrderService
	logger  logger.Logger
}

func NewOrderHandler(service OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrdersResponse is the reconciled listing flattened for the UI
type OrdersResponse struct {
	Orders        []domain.Transaction `json:"orders"`
	Server        []domain.Transaction `json:"server"`
	LocalFallback []domain.Transaction `json:"localFallback"`
	Inconsistent  []string             `json:"inconsistent,omitempty"`
	Pagination    *domain.Pagination   `json:"pagination,omitempty"`
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/order/checkout", h.Checkout)
	mux.HandleFunc("GET /api/order/my-order", h.MyOrders)
	mux.HandleFunc("GET /api/order/{transactionId}/track", h.Track)
	mux.HandleFunc("PUT /api/order/{key}/status", h.UpdateStatus)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	paymentMethod := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if paymentMethod != "" && !domain.ValidPaymentMethod(paymentMethod) {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "paymentMethod",
			Message: "payment method must be one of: " + strings.Join(domain.PaymentMethods, ", "),
		}})
		return
	}

	tx, err := h.service.Checkout(r.Context(), paymentMethod)
	if err != nil {
		respondServiceError(w, r, h.logger, "checkout_failed", err)
		return
	}
	respondOK(w, http.StatusCreated, "Order placed", tx)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := orders.ListQuery{
		Filter: ledger.Filter{
			Search:         q.String("q"),
			ActionableOnly: q.Bool("actionable"),
		},
		Page:  q.Int("page"),
		Limit: q.Int("limit"),
	}
	if raw := q.String("status"); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			q.errs = append(q.errs, ValidationError{Field: "status", Message: "unknown order status"})
		}
		query.Filter.Status = status
	}
	if len(q.errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
		return
	}

	listing, err := h.service.List(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, h.logger, "orders_list_failed", err)
		return
	}

	respondOK(w, http.StatusOK, "", OrdersResponse{
		Orders:        listing.All(),
		Server:        listing.Server,
		LocalFallback: listing.LocalFallback,
		Inconsistent:  listing.Inconsistent,
		Pagination:    listing.Pagination,
	})
}

func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(r.PathValue("transactionId"))
	if transactionID == "" {
		respondError(w, "Invalid transaction id", http.StatusBadRequest, nil)
		return
	}

	tx, err := h.service.Track(r.Context(), transactionID)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_track_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", tx)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))

	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	next, ok := domain.ParseStatus(req.Status)
	if !ok {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{{
			Field:   "status",
			Message: "status must be one of: preparing, on_the_way, delivered, done, cancelled",
		}})
		return
	}

	tx, err := h.service.UpdateStatus(r.Context(), key, next)
	if err != nil {
		respondServiceError(w, r, h.logger, "order_status_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Order status updated", tx)
}
