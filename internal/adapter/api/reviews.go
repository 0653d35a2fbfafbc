package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

func reviewParams(q interfaces.ReviewQuery) url.Values {
	params := url.Values{}
	setPositive(params, "page", q.Page)
	setPositive(params, "limit", q.Limit)
	setPositive(params, "rating", q.Rating)
	return params
}

func (c *Client) reviewPage(ctx context.Context, path string, q interfaces.ReviewQuery) (interfaces.ReviewPage, error) {
	data, err := callData[wireReviewList](ctx, c, http.MethodGet, path, reviewParams(q), nil)
	if err != nil {
		return interfaces.ReviewPage{}, err
	}
	return interfaces.ReviewPage{Reviews: data.toDomain(), Pagination: data.Pagination}, nil
}

func (c *Client) CreateReview(ctx context.Context, cmd interfaces.CreateReviewCommand) (domain.Review, error) {
	data, err := callData[wireSingleReview](ctx, c, http.MethodPost, "/api/review", nil, cmd)
	if err != nil {
		return domain.Review{}, err
	}
	return data.toDomain(), nil
}

func (c *Client) RestaurantReviews(ctx context.Context, restaurantID int, q interfaces.ReviewQuery) (interfaces.ReviewPage, error) {
	return c.reviewPage(ctx, "/api/review/restaurant/"+strconv.Itoa(restaurantID), q)
}

func (c *Client) MyReviews(ctx context.Context, q interfaces.ReviewQuery) (interfaces.ReviewPage, error) {
	return c.reviewPage(ctx, "/api/review/my-reviews", q)
}

func (c *Client) UpdateReview(ctx context.Context, reviewID int, cmd interfaces.UpdateReviewCommand) (domain.Review, error) {
	data, err := callData[wireSingleReview](ctx, c, http.MethodPut, "/api/review/"+strconv.Itoa(reviewID), nil, cmd)
	if err != nil {
		return domain.Review{}, err
	}
	return data.toDomain(), nil
}

func (c *Client) DeleteReview(ctx context.Context, reviewID int) error {
	_, err := call[struct{}](ctx, c, http.MethodDelete, "/api/review/"+strconv.Itoa(reviewID), nil, nil)
	return err
}
