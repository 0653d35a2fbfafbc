package orders

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/adapter/memory"
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

var errRejected = errors.New("rejected")

type fakeOrderAPI struct {
	checkout     domain.Transaction
	checkoutErr  error
	orders       []domain.Transaction
	listCalls    int
	updateErr    error
	updateStatus domain.Status
	updatedIDs   []int
}

func (f *fakeOrderAPI) Checkout(ctx context.Context, paymentMethod string) (domain.Transaction, error) {
	return f.checkout, f.checkoutErr
}

func (f *fakeOrderAPI) MyOrders(ctx context.Context, q interfaces.OrdersQuery) (interfaces.OrderPage, error) {
	f.listCalls++
	return interfaces.OrderPage{Orders: f.orders}, nil
}

func (f *fakeOrderAPI) UpdateOrderStatus(ctx context.Context, orderID int, status domain.Status) (domain.Transaction, error) {
	f.updatedIDs = append(f.updatedIDs, orderID)
	if f.updateErr != nil {
		return domain.Transaction{}, f.updateErr
	}
	st := status
	if f.updateStatus != "" {
		st = f.updateStatus
	}
	return domain.Transaction{ID: &orderID, Status: st}, nil
}

type fakeCart struct {
	cart      domain.Cart
	discarded int
}

func (f *fakeCart) Get(ctx context.Context) (domain.Cart, error) { return f.cart, nil }
func (f *fakeCart) Discard(ctx context.Context)                  { f.discarded++ }

type recordingPublisher struct {
	checkouts []interfaces.CheckoutMessage
	updates   []interfaces.StatusUpdateMessage
	err       error
}

func (p *recordingPublisher) PublishCheckout(ctx context.Context, msg interfaces.CheckoutMessage) error {
	p.checkouts = append(p.checkouts, msg)
	return p.err
}

func (p *recordingPublisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	p.updates = append(p.updates, msg)
	return p.err
}

type fixture struct {
	svc       *Service
	api       *fakeOrderAPI
	cart      *fakeCart
	history   *ledger.OrderHistory
	publisher *recordingPublisher
	ctx       context.Context
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lgr := logger.NewWithWriter("test", &bytes.Buffer{})
	history := ledger.NewOrderHistory(ledger.NewStore(memory.NewLedgerBackend(), lgr), 50)

	f := &fixture{
		api: &fakeOrderAPI{},
		cart: &fakeCart{cart: domain.NewCart([]domain.CartGroup{{
			Restaurant: domain.RestaurantRef{ID: 7, Name: "Burger Bros"},
			Items: []domain.CartItem{{
				ID:        100,
				Menu:      domain.MenuSnapshot{ID: 41, FoodName: "Cheeseburger", Price: 15000},
				Quantity:  2,
				ItemTotal: 30000,
			}},
		}})},
		history:   history,
		publisher: &recordingPublisher{},
		ctx:       interfaces.WithSession(context.Background(), interfaces.Session{UserKey: "u1"}),
	}
	f.svc = NewService(f.api, f.cart, history, querycache.New(64, time.Minute), f.publisher, lgr)
	f.svc.SetClock(func() time.Time { return fixedNow })
	return f
}

func order(id int, txID string, status domain.Status, price int64) domain.Transaction {
	tx := domain.Transaction{
		TransactionID: txID,
		Status:        status,
		Restaurants: []domain.TransactionRestaurant{{
			Restaurant: domain.RestaurantRef{ID: 7, Name: "Burger Bros"},
			Items: []domain.TransactionItem{{
				MenuID:    41,
				MenuName:  "Cheeseburger",
				Price:     price,
				Quantity:  2,
				ItemTotal: price * 2,
			}},
		}},
	}
	if id > 0 {
		tx.ID = &id
	}
	return tx
}

func TestCheckout_FillsMissingFieldsFromCart(t *testing.T) {
	f := newFixture(t)

	tx, err := f.svc.Checkout(f.ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "TRX-1772357400000", tx.TransactionID)
	assert.Equal(t, "bni", tx.PaymentMethod)
	assert.Equal(t, domain.StatusPreparing, tx.Status)
	assert.Equal(t, domain.Pricing{Subtotal: 30000, DeliveryFee: 10000, ServiceFee: 1000, TotalPrice: 41000}, tx.Pricing)
	require.Len(t, tx.Restaurants, 1)
	assert.Equal(t, "Cheeseburger", tx.Restaurants[0].Items[0].MenuName)
	assert.Equal(t, "2026-03-01T09:30:00Z", tx.CreatedAt)

	stored, ok := f.history.Find(f.ctx, "u1", tx.TransactionID)
	require.True(t, ok)
	assert.Equal(t, tx, stored)
	assert.Equal(t, 1, f.cart.discarded)

	require.Len(t, f.publisher.checkouts, 1)
	assert.Equal(t, 2, f.publisher.checkouts[0].ItemCount)
	assert.Equal(t, "u1", f.publisher.checkouts[0].UserKey)
}

func TestCheckout_PrefersServerFields(t *testing.T) {
	f := newFixture(t)
	f.api.checkout = domain.Transaction{TransactionID: "TRX-42", Status: domain.StatusPreparing, PaymentMethod: "bca"}

	tx, err := f.svc.Checkout(f.ctx, "bca")
	require.NoError(t, err)
	assert.Equal(t, "TRX-42", tx.TransactionID)
	assert.Equal(t, "bca", tx.PaymentMethod)
}

func TestCheckout_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(f.ctx, "paypal")
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)

	f.cart.cart = domain.NewCart(nil)
	_, err = f.svc.Checkout(f.ctx, "bni")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.history.Get(f.ctx, "u1"))
}

func TestCheckout_ServerFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.api.checkoutErr = errRejected

	_, err := f.svc.Checkout(f.ctx, "bni")
	assert.ErrorIs(t, err, errRejected)
	assert.Empty(t, f.history.Get(f.ctx, "u1"))
	assert.Zero(t, f.cart.discarded)
	assert.Empty(t, f.publisher.checkouts)
}

func TestCheckout_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errRejected

	_, err := f.svc.Checkout(f.ctx, "mandiri")
	assert.NoError(t, err)
}

func TestList_ShowsLocalOrderUntilServerCatchesUp(t *testing.T) {
	f := newFixture(t)
	tx, err := f.svc.Checkout(f.ctx, "bni")
	require.NoError(t, err)

	listing, err := f.svc.List(f.ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, listing.LocalFallback, 1)
	assert.Equal(t, tx.TransactionID, listing.LocalFallback[0].TransactionID)
	assert.Empty(t, listing.Server)
}

func TestList_ConfirmedServerCopyReplacesLocal(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(0, "TRX-1", domain.StatusOnTheWay, 15000))
	f.api.orders = []domain.Transaction{order(5, "TRX-1", domain.StatusPreparing, 15000)}

	listing, err := f.svc.List(f.ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, listing.Server, 1)
	assert.Equal(t, domain.StatusOnTheWay, listing.Server[0].Status)

	stored, ok := f.history.Find(f.ctx, "u1", "TRX-1")
	require.True(t, ok)
	assert.True(t, stored.HasServerID())
	assert.Equal(t, domain.StatusOnTheWay, stored.Status)
}

func TestList_InconsistentServerCopySuppressed(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(0, "TRX-1", domain.StatusPreparing, 15000))
	f.api.orders = []domain.Transaction{order(5, "TRX-1", domain.StatusPreparing, 12000)}

	listing, err := f.svc.List(f.ctx, ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, listing.Server)
	require.Len(t, listing.LocalFallback, 1)
	assert.Equal(t, int64(15000), listing.LocalFallback[0].Restaurants[0].Items[0].Price)
}

func TestList_IsCached(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(f.ctx, ListQuery{Page: 1})
	require.NoError(t, err)
	_, err = f.svc.List(f.ctx, ListQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.listCalls)
}

func TestTrack(t *testing.T) {
	f := newFixture(t)
	f.api.orders = []domain.Transaction{order(5, "TRX-1", domain.StatusDelivered, 15000)}

	tx, err := f.svc.Track(f.ctx, "TRX-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, tx.Status)

	_, err = f.svc.Track(f.ctx, "TRX-404")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatus_ServerOrder(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(5, "TRX-1", domain.StatusPreparing, 15000))

	tx, err := f.svc.UpdateStatus(f.ctx, "5", domain.StatusOnTheWay)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnTheWay, tx.Status)
	assert.Equal(t, []int{5}, f.api.updatedIDs)

	stored, _ := f.history.Find(f.ctx, "u1", "TRX-1")
	assert.Equal(t, domain.StatusOnTheWay, stored.Status)

	require.Len(t, f.publisher.updates, 1)
	assert.Equal(t, domain.StatusPreparing, f.publisher.updates[0].OldStatus)
	assert.Equal(t, domain.StatusOnTheWay, f.publisher.updates[0].NewStatus)
}

func TestUpdateStatus_ServerReportedStatusWins(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(5, "TRX-1", domain.StatusOnTheWay, 15000))
	f.api.updateStatus = domain.StatusDone

	tx, err := f.svc.UpdateStatus(f.ctx, "TRX-1", domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, tx.Status)

	stored, _ := f.history.Find(f.ctx, "u1", "TRX-1")
	assert.Equal(t, domain.StatusDone, stored.Status)
}

func TestUpdateStatus_FailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(5, "TRX-1", domain.StatusPreparing, 15000))
	f.api.updateErr = errRejected

	_, err := f.svc.UpdateStatus(f.ctx, "TRX-1", domain.StatusCancelled)
	assert.ErrorIs(t, err, errRejected)

	stored, _ := f.history.Find(f.ctx, "u1", "TRX-1")
	assert.Equal(t, domain.StatusPreparing, stored.Status)
	assert.Empty(t, f.publisher.updates)
}

func TestUpdateStatus_LocalOnlyOrder(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(0, "TRX-1", domain.StatusPreparing, 15000))

	tx, err := f.svc.UpdateStatus(f.ctx, "TRX-1", domain.StatusOnTheWay)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnTheWay, tx.Status)
	assert.Empty(t, f.api.updatedIDs)
}

func TestUpdateStatus_RejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	f.history.Put(f.ctx, "u1", order(5, "TRX-1", domain.StatusDelivered, 15000))

	_, err := f.svc.UpdateStatus(f.ctx, "TRX-1", domain.StatusPreparing)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Empty(t, f.api.updatedIDs)
}

func TestUpdateStatus_ServerOnlyOrderIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.api.orders = []domain.Transaction{order(8, "TRX-8", domain.StatusOnTheWay, 15000)}

	_, err := f.svc.UpdateStatus(f.ctx, "8", domain.StatusDelivered)
	require.NoError(t, err)

	stored, ok := f.history.Find(f.ctx, "u1", "TRX-8")
	require.True(t, ok)
	assert.Equal(t, domain.StatusDelivered, stored.Status)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(f.ctx, "TRX-404", domain.StatusDone)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
