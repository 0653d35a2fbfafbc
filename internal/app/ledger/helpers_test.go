package ledger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/memory"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore() *Store {
	return NewStore(memory.NewLedgerBackend(), logger.NewWithWriter("test", &bytes.Buffer{}))
}

func newTestPending(maxEntries int) *PendingLedger {
	l := NewPendingLedger(newTestStore(), maxEntries)
	clock := &stepClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	l.SetClock(clock.Now)
	return l
}

type failingBackend struct {
	loads, saves, deletes int
}

var errStorageDown = errors.New("quota exceeded")

func (b *failingBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	b.loads++
	return nil, false, errStorageDown
}

func (b *failingBackend) Save(ctx context.Context, key string, payload []byte) error {
	b.saves++
	return errStorageDown
}

func (b *failingBackend) Delete(ctx context.Context, key string) error {
	b.deletes++
	return errStorageDown
}

func burgerCart() domain.Cart {
	return domain.NewCart([]domain.CartGroup{{
		Restaurant: domain.RestaurantRef{ID: 7, Name: "Burger Bros", Logo: "bb.png"},
		Items: []domain.CartItem{{
			ID:        100,
			Menu:      domain.MenuSnapshot{ID: 41, FoodName: "Cheeseburger", Price: 20000, Type: "food"},
			Quantity:  3,
			ItemTotal: 60000,
		}},
	}})
}

func tx(id string, status domain.Status, createdAt string, items ...domain.TransactionItem) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		Status:        status,
		CreatedAt:     createdAt,
		Restaurants: []domain.TransactionRestaurant{{
			Restaurant: domain.RestaurantRef{ID: 7, Name: "Burger Bros"},
			Items:      items,
		}},
	}
}

func item(name string, price int64, qty int) domain.TransactionItem {
	return domain.TransactionItem{MenuName: name, Price: price, Quantity: qty, ItemTotal: price * int64(qty)}
}
