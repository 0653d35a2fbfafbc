package domain

import (
	"errors"
	"fmt"
	"time"
)

// Transaction represents a checked-out order. TransactionID is the stable
// identity; ID only exists once the server has ingested the order.
type Transaction struct {
	ID            *int                    `json:"id,omitempty"`
	TransactionID string                  `json:"transactionId"`
	PaymentMethod string                  `json:"paymentMethod,omitempty"`
	Status        Status                  `json:"status"`
	Restaurants   []TransactionRestaurant `json:"restaurants"`
	Pricing       Pricing                 `json:"pricing"`
	CreatedAt     string                  `json:"createdAt,omitempty"`
}

// TransactionRestaurant freezes one restaurant's items at checkout time
type TransactionRestaurant struct {
	Restaurant RestaurantRef     `json:"restaurant"`
	Items      []TransactionItem `json:"items"`
	Subtotal   int64             `json:"subtotal"`
}

type TransactionItem struct {
	MenuID    int    `json:"menuId"`
	MenuName  string `json:"menuName"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ItemTotal int64  `json:"itemTotal"`
	Image     string `json:"image,omitempty"`
}

type Pricing struct {
	Subtotal    int64 `json:"subtotal"`
	ServiceFee  int64 `json:"serviceFee"`
	DeliveryFee int64 `json:"deliveryFee"`
	TotalPrice  int64 `json:"totalPrice"`
}

const (
	DeliveryFee int64 = 10000
	ServiceFee  int64 = 1000
)

// NewPricing applies the flat delivery and service fees to a cart subtotal
func NewPricing(subtotal int64) Pricing {
	return Pricing{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		ServiceFee:  ServiceFee,
		TotalPrice:  subtotal + DeliveryFee + ServiceFee,
	}
}

// SnapshotCart freezes the cart groups into transaction restaurants
func SnapshotCart(groups []CartGroup) []TransactionRestaurant {
	out := make([]TransactionRestaurant, 0, len(groups))
	for _, g := range groups {
		items := make([]TransactionItem, 0, len(g.Items))
		for _, it := range g.Items {
			items = append(items, TransactionItem{
				MenuID:    it.Menu.ID,
				MenuName:  it.Menu.FoodName,
				Price:     it.Menu.Price,
				Quantity:  it.Quantity,
				ItemTotal: it.ItemTotal,
				Image:     it.Menu.Image,
			})
		}
		out = append(out, TransactionRestaurant{
			Restaurant: g.Restaurant,
			Items:      items,
			Subtotal:   g.Subtotal,
		})
	}
	return out
}

// FallbackTransactionID mirrors the server's TRX-<millis> format for orders
// whose checkout response carried no id.
func FallbackTransactionID(now time.Time) string {
	return fmt.Sprintf("TRX-%d", now.UnixMilli())
}

// HasServerID reports whether the order can be addressed by numeric id
func (t Transaction) HasServerID() bool {
	return t.ID != nil && *t.ID > 0
}

// TransitionTo moves the order to a new status
func (t *Transaction) TransitionTo(next Status) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, next)
	}
	t.Status = next
	return nil
}

var PaymentMethods = []string{"bni", "bri", "bca", "mandiri"}

func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
)
