package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Checkout returns whatever part of the transaction the server echoed back.
// Missing fields are left zero.
func (c *Client) Checkout(ctx context.Context, paymentMethod string) (domain.Transaction, error) {
	body := map[string]string{"paymentMethod": paymentMethod}
	data, err := call[wireCheckout](ctx, c, http.MethodPost, "/api/order/checkout", nil, body)
	if err != nil {
		return domain.Transaction{}, err
	}
	if data == nil || data.Transaction == nil {
		return domain.Transaction{}, nil
	}
	return data.Transaction.toDomain(), nil
}

func (c *Client) MyOrders(ctx context.Context, q interfaces.OrdersQuery) (interfaces.OrderPage, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	setPositive(params, "page", q.Page)
	setPositive(params, "limit", q.Limit)

	data, err := callData[wireOrders](ctx, c, http.MethodGet, "/api/order/my-order", params, nil)
	if err != nil {
		return interfaces.OrderPage{}, err
	}

	page := interfaces.OrderPage{
		Orders:     make([]domain.Transaction, 0, len(*data.Orders)),
		Pagination: data.Pagination,
	}
	for i := range *data.Orders {
		page.Orders = append(page.Orders, (*data.Orders)[i].toDomain())
	}
	return page, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status domain.Status) (domain.Transaction, error) {
	body := map[string]string{"status": string(status)}
	path := "/api/order/" + strconv.Itoa(orderID) + "/status"
	data, err := callData[wireOrder](ctx, c, http.MethodPut, path, nil, body)
	if err != nil {
		return domain.Transaction{}, err
	}
	return data.toDomain(), nil
}

func setPositive(params url.Values, key string, v int) {
	if v > 0 {
		params.Set(key, strconv.Itoa(v))
	}
}
