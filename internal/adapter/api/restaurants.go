package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Coordinates sent when the caller has no location (central Jakarta)
const (
	FallbackLat  = -6.175392
	FallbackLong = 106.827153
)

const (
	defaultNearbyRange = 10
	defaultNearbyLimit = 24
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func setLocation(params url.Values, lat, long *float64) {
	la, lo := FallbackLat, FallbackLong
	if lat != nil {
		la = *lat
	}
	if long != nil {
		lo = *long
	}
	params.Set("lat", formatFloat(la))
	params.Set("long", formatFloat(lo))
}

func restaurantParams(q interfaces.RestaurantQuery) url.Values {
	params := url.Values{}
	if q.Q != "" {
		params.Set("q", q.Q)
	}
	if q.PriceMin != nil {
		params.Set("priceMin", strconv.FormatInt(*q.PriceMin, 10))
	}
	if q.PriceMax != nil {
		params.Set("priceMax", strconv.FormatInt(*q.PriceMax, 10))
	}
	if q.Rating != nil {
		params.Set("rating", formatFloat(*q.Rating))
	}
	setPositive(params, "page", q.Page)
	setPositive(params, "limit", q.Limit)
	setLocation(params, q.Lat, q.Long)
	return params
}

func (c *Client) restaurantPage(ctx context.Context, path string, params url.Values) (interfaces.RestaurantPage, error) {
	data, err := callData[wireRestaurantList](ctx, c, http.MethodGet, path, params, nil)
	if err != nil {
		return interfaces.RestaurantPage{}, err
	}
	return interfaces.RestaurantPage{
		Restaurants: restaurantsToDomain(*data.Restaurants),
		Pagination:  data.Pagination,
	}, nil
}

func (c *Client) ListRestaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	return c.restaurantPage(ctx, "/api/resto", restaurantParams(q))
}

func (c *Client) BestSellerRestaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	return c.restaurantPage(ctx, "/api/resto/best-seller", restaurantParams(q))
}

func (c *Client) SearchRestaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	return c.restaurantPage(ctx, "/api/resto/search", restaurantParams(q))
}

func (c *Client) RecommendedRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	data, err := callData[wireRecommended](ctx, c, http.MethodGet, "/api/resto/recommended", nil, nil)
	if err != nil {
		return nil, err
	}
	return restaurantsToDomain(*data.Recommendations), nil
}

func (c *Client) NearbyRestaurants(ctx context.Context, q interfaces.NearbyQuery) ([]domain.Restaurant, error) {
	params := url.Values{}
	rng, limit := q.Range, q.Limit
	if rng <= 0 {
		rng = defaultNearbyRange
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	params.Set("range", strconv.Itoa(rng))
	params.Set("limit", strconv.Itoa(limit))
	setLocation(params, q.Lat, q.Long)

	page, err := c.restaurantPage(ctx, "/api/resto/nearby", params)
	if err != nil {
		return nil, err
	}
	return page.Restaurants, nil
}

func (c *Client) RestaurantDetail(ctx context.Context, id int, q interfaces.DetailQuery) (domain.RestaurantDetail, error) {
	params := url.Values{}
	setPositive(params, "limitMenu", q.LimitMenu)
	setPositive(params, "limitReview", q.LimitReview)
	setLocation(params, q.Lat, q.Long)

	data, err := callData[wireRestaurantDetail](ctx, c, http.MethodGet, "/api/resto/"+strconv.Itoa(id), params, nil)
	if err != nil {
		return domain.RestaurantDetail{}, err
	}
	return data.toDomain(), nil
}
