package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/adapter/api"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const (
	fallbackRecommendedLimit = 12
	fallbackMessage          = "fallback: public list"
	allPageLimit             = 50
)

// Recommendation is the recommended list. Message is set when the public
// list was served instead.
type Recommendation struct {
	Restaurants []domain.Restaurant `json:"recommendations"`
	Message     string              `json:"message,omitempty"`
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func optInt(i *int64) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(*i, 10)
}

func restaurantParams(kind string, q interfaces.RestaurantQuery) string {
	return strings.Join([]string{
		kind,
		"q=" + q.Q,
		"min=" + optInt(q.PriceMin),
		"max=" + optInt(q.PriceMax),
		"rating=" + optFloat(q.Rating),
		"page=" + strconv.Itoa(q.Page),
		"limit=" + strconv.Itoa(q.Limit),
		"lat=" + optFloat(q.Lat),
		"long=" + optFloat(q.Long),
	}, "&")
}

func (s *Service) restaurantPage(ctx context.Context, kind string, q interfaces.RestaurantQuery, fn func(context.Context, interfaces.RestaurantQuery) (interfaces.RestaurantPage, error)) (interfaces.RestaurantPage, error) {
	key := querycache.Key{Scope: querycache.ScopeRestaurants, User: publicUser, Params: restaurantParams(kind, q)}
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (interfaces.RestaurantPage, error) {
		return fn(ctx, q)
	})
}

func (s *Service) Restaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	return s.restaurantPage(ctx, "list", q, s.restaurants.ListRestaurants)
}

func (s *Service) BestSellers(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	return s.restaurantPage(ctx, "best-seller", q, s.restaurants.BestSellerRestaurants)
}

// Search returns nothing for a blank query without asking the server
func (s *Service) Search(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	q.Q = strings.TrimSpace(q.Q)
	if q.Q == "" {
		return interfaces.RestaurantPage{Restaurants: []domain.Restaurant{}}, nil
	}
	return s.restaurantPage(ctx, "search", q, s.restaurants.SearchRestaurants)
}

// AllRestaurants walks every page of the restaurant list
func (s *Service) AllRestaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error) {
	if q.Limit <= 0 {
		q.Limit = allPageLimit
	}
	q.Page = 1

	first, err := s.Restaurants(ctx, q)
	if err != nil {
		return interfaces.RestaurantPage{}, err
	}

	all := append([]domain.Restaurant(nil), first.Restaurants...)
	if first.Pagination != nil {
		for page := 2; page <= first.Pagination.TotalPages; page++ {
			q.Page = page
			next, err := s.Restaurants(ctx, q)
			if err != nil {
				return interfaces.RestaurantPage{}, fmt.Errorf("failed to load restaurant page %d: %w", page, err)
			}
			all = append(all, next.Restaurants...)
		}
	}

	return interfaces.RestaurantPage{
		Restaurants: all,
		Pagination:  &domain.Pagination{Page: 1, Limit: len(all), Total: len(all), TotalPages: 1},
	}, nil
}

func (s *Service) Nearby(ctx context.Context, q interfaces.NearbyQuery) ([]domain.Restaurant, error) {
	key := querycache.Key{
		Scope:  querycache.ScopeRestaurants,
		User:   publicUser,
		Params: fmt.Sprintf("nearby&range=%d&limit=%d&lat=%s&long=%s", q.Range, q.Limit, optFloat(q.Lat), optFloat(q.Long)),
	}
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]domain.Restaurant, error) {
		return s.restaurants.NearbyRestaurants(ctx, q)
	})
}

func (s *Service) Detail(ctx context.Context, id int, q interfaces.DetailQuery) (domain.RestaurantDetail, error) {
	key := querycache.Key{
		Scope:  querycache.ScopeRestaurant,
		User:   publicUser,
		Params: fmt.Sprintf("%d&menus=%d&reviews=%d&lat=%s&long=%s", id, q.LimitMenu, q.LimitReview, optFloat(q.Lat), optFloat(q.Long)),
	}
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (domain.RestaurantDetail, error) {
		return s.restaurants.RestaurantDetail(ctx, id, q)
	})
}

// Recommended serves the caller's recommendations. Callers the server does
// not recognise get the first page of the public list instead.
func (s *Service) Recommended(ctx context.Context) (Recommendation, error) {
	session := interfaces.SessionFrom(ctx)
	key := querycache.Key{Scope: querycache.ScopeRestaurants, User: session.UserKey, Params: "recommended"}

	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (Recommendation, error) {
		list, err := s.restaurants.RecommendedRestaurants(ctx)
		if err == nil {
			return Recommendation{Restaurants: list}, nil
		}
		if !api.IsStatus(err, http.StatusUnauthorized) {
			return Recommendation{}, err
		}

		s.logger.Debug("recommended_fallback", "Recommendations need login, serving public list", session.RequestID, nil)
		lat, long := api.FallbackLat, api.FallbackLong
		page, err := s.restaurants.ListRestaurants(ctx, interfaces.RestaurantQuery{
			Page:  1,
			Limit: fallbackRecommendedLimit,
			Lat:   &lat,
			Long:  &long,
		})
		if err != nil {
			return Recommendation{}, err
		}
		return Recommendation{Restaurants: page.Restaurants, Message: fallbackMessage}, nil
	})
}
