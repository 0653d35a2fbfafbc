package http

import (
	"context"
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/cart"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

type CartService interface {
	Get(ctx context.Context) (domain.Cart, error)
	PendingQuantity(ctx context.Context, restaurantID, menuID int) int
	Add(ctx context.Context, item cart.AddItem) (domain.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID, quantity int, details *cart.ItemDetails) error
	Remove(ctx context.Context, itemID int) error
	Clear(ctx context.Context) error
}

type CartHandler struct {
	service CartService
	logger  logger.Logger
}

func NewCartHandler(service CartService, logger logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// itemRequest carries the display data of a product so the cart can show
// it before the server returns the line
type itemRequest struct {
	RestaurantID   int    `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	RestaurantLogo string `json:"restaurantLogo"`
	MenuID         int    `json:"menuId"`
	MenuName       string `json:"menuName"`
	MenuPrice      int64  `json:"menuPrice"`
	MenuImage      string `json:"menuImage"`
	Quantity       int    `json:"quantity"`
}

func (req itemRequest) details() cart.ItemDetails {
	return cart.ItemDetails{
		RestaurantID:   req.RestaurantID,
		RestaurantName: req.RestaurantName,
		RestaurantLogo: req.RestaurantLogo,
		MenuID:         req.MenuID,
		MenuName:       req.MenuName,
		MenuPrice:      req.MenuPrice,
		MenuImage:      req.MenuImage,
	}
}

func (h *CartHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart", h.AddItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)
	mux.HandleFunc("GET /api/cart/pending", h.PendingQuantity)
	mux.HandleFunc("PUT /api/cart/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/{id}", h.RemoveItem)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "cart_get_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", c)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if errs := validateItemRequest(req); len(errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errs)
		return
	}

	item, err := h.service.Add(r.Context(), cart.AddItem{ItemDetails: req.details(), Quantity: req.Quantity})
	if err != nil {
		respondServiceError(w, r, h.logger, "cart_add_failed", err)
		return
	}
	respondOK(w, http.StatusCreated, "Item added to cart", item)
}

func validateItemRequest(req itemRequest) []ValidationError {
	var errors []ValidationError
	if req.RestaurantID <= 0 {
		errors = append(errors, ValidationError{Field: "restaurantId", Message: "restaurant id is required"})
	}
	if req.MenuID <= 0 {
		errors = append(errors, ValidationError{Field: "menuId", Message: "menu id is required"})
	}
	if req.Quantity < 0 {
		errors = append(errors, ValidationError{Field: "quantity", Message: "quantity must not be negative"})
	}
	if req.MenuPrice < 0 {
		errors = append(errors, ValidationError{Field: "menuPrice", Message: "menu price must not be negative"})
	}
	return errors
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := cartItemID(r)
	if !ok {
		respondError(w, "Invalid cart item id", http.StatusBadRequest, nil)
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	// без restaurantId/menuId строка ищется только по id
	var details *cart.ItemDetails
	if req.RestaurantID > 0 && req.MenuID > 0 {
		d := req.details()
		details = &d
	}

	if err := h.service.UpdateQuantity(r.Context(), itemID, req.Quantity, details); err != nil {
		respondServiceError(w, r, h.logger, "cart_update_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Cart item updated", nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := cartItemID(r)
	if !ok {
		respondError(w, "Invalid cart item id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.Remove(r.Context(), itemID); err != nil {
		respondServiceError(w, r, h.logger, "cart_remove_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Cart item removed", nil)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		respondServiceError(w, r, h.logger, "cart_clear_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Cart cleared", nil)
}

func (h *CartHandler) PendingQuantity(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	restaurantID := q.Int("restaurantId")
	menuID := q.Int("menuId")
	if q.String("restaurantId") == "" {
		q.errs = append(q.errs, ValidationError{Field: "restaurantId", Message: "restaurant id is required"})
	}
	if q.String("menuId") == "" {
		q.errs = append(q.errs, ValidationError{Field: "menuId", Message: "menu id is required"})
	}
	if len(q.errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
		return
	}

	respondOK(w, http.StatusOK, "", map[string]int{
		"quantity": h.service.PendingQuantity(r.Context(), restaurantID, menuID),
	})
}
