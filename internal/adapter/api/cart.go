package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	data, err := callData[wireCart](ctx, c, http.MethodGet, "/api/cart", nil, nil)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.NewCart(data.toDomain()), nil
}

func (c *Client) AddCartItem(ctx context.Context, cmd interfaces.AddCartItemCommand) (domain.CartItem, error) {
	data, err := callData[wireAddedItem](ctx, c, http.MethodPost, "/api/cart", nil, cmd)
	if err != nil {
		return domain.CartItem{}, err
	}
	return data.toDomain(), nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID, quantity int) error {
	body := map[string]int{"quantity": quantity}
	_, err := call[struct{}](ctx, c, http.MethodPut, "/api/cart/"+strconv.Itoa(itemID), nil, body)
	return err
}

func (c *Client) DeleteCartItem(ctx context.Context, itemID int) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/cart/"+strconv.Itoa(itemID), nil, nil)
	return err
}

func (c *Client) ClearCart(ctx context.Context) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/cart", nil, nil)
	return err
}
