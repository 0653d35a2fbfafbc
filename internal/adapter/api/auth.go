package api

import (
	"context"
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

func (c *Client) authenticate(ctx context.Context, path string, body any) (interfaces.AuthResult, error) {
	data, err := callData[wireAuth](ctx, c, http.MethodPost, path, nil, body)
	if err != nil {
		return interfaces.AuthResult{}, err
	}
	return interfaces.AuthResult{User: data.User.toDomain(), Token: *data.Token}, nil
}

func (c *Client) Login(ctx context.Context, cmd interfaces.LoginCommand) (interfaces.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", cmd)
}

func (c *Client) Register(ctx context.Context, cmd interfaces.RegisterCommand) (interfaces.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", cmd)
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	data, err := callData[wireUser](ctx, c, http.MethodGet, "/api/auth/profile", nil, nil)
	if err != nil {
		return domain.User{}, err
	}
	return data.toDomain(), nil
}

func (c *Client) UpdateProfile(ctx context.Context, cmd interfaces.UpdateProfileCommand) (domain.User, error) {
	data, err := callData[wireUser](ctx, c, http.MethodPut, "/api/auth/profile", nil, cmd)
	if err != nil {
		return domain.User{}, err
	}
	return data.toDomain(), nil
}

var (
	_ interfaces.CartAPI       = (*Client)(nil)
	_ interfaces.OrderAPI      = (*Client)(nil)
	_ interfaces.ReviewAPI     = (*Client)(nil)
	_ interfaces.RestaurantAPI = (*Client)(nil)
	_ interfaces.AuthAPI       = (*Client)(nil)
)
