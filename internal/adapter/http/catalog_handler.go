package http

import (
	"context"
	"net/http"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/catalog"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type RestaurantService interface {
	Restaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error)
	BestSellers(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error)
	Search(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error)
	AllRestaurants(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error)
	Nearby(ctx context.Context, q interfaces.NearbyQuery) ([]domain.Restaurant, error)
	Detail(ctx context.Context, id int, q interfaces.DetailQuery) (domain.RestaurantDetail, error)
	Recommended(ctx context.Context) (catalog.Recommendation, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, cmd interfaces.CreateReviewCommand) (domain.Review, error)
	RestaurantReviews(ctx context.Context, restaurantID int, q interfaces.ReviewQuery) (interfaces.ReviewPage, error)
	MyReviews(ctx context.Context, q interfaces.ReviewQuery) (interfaces.ReviewPage, error)
	UpdateReview(ctx context.Context, reviewID int, cmd interfaces.UpdateReviewCommand) (domain.Review, error)
	DeleteReview(ctx context.Context, reviewID int) error
}

type RestaurantHandler struct {
	service RestaurantService
	logger  logger.Logger
}

func NewRestaurantHandler(service RestaurantService, logger logger.Logger) *RestaurantHandler {
	return &RestaurantHandler{service: service, logger: logger}
}

type RestaurantsResponse struct {
	Restaurants []domain.Restaurant `json:"restaurants"`
	Pagination  *domain.Pagination  `json:"pagination,omitempty"`
}

func (h *RestaurantHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/resto", h.list(h.service.Restaurants, "restaurants_list_failed"))
	mux.HandleFunc("GET /api/resto/all", h.list(h.service.AllRestaurants, "restaurants_all_failed"))
	mux.HandleFunc("GET /api/resto/best-seller", h.list(h.service.BestSellers, "restaurants_best_seller_failed"))
	mux.HandleFunc("GET /api/resto/search", h.list(h.service.Search, "restaurants_search_failed"))
	mux.HandleFunc("GET /api/resto/recommended", h.Recommended)
	mux.HandleFunc("GET /api/resto/nearby", h.Nearby)
	mux.HandleFunc("GET /api/resto/{id}", h.Detail)
}

func restaurantQuery(q *queryReader) interfaces.RestaurantQuery {
	return interfaces.RestaurantQuery{
		Q:        q.String("q"),
		PriceMin: q.OptInt64("priceMin"),
		PriceMax: q.OptInt64("priceMax"),
		Rating:   q.OptFloat("rating"),
		Page:     q.Int("page"),
		Limit:    q.Int("limit"),
		Lat:      q.OptFloat("lat"),
		Long:     q.OptFloat("long"),
	}
}

type restaurantLister func(ctx context.Context, q interfaces.RestaurantQuery) (interfaces.RestaurantPage, error)

func (h *RestaurantHandler) list(fn restaurantLister, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := newQueryReader(r)
		query := restaurantQuery(q)
		if len(q.errs) > 0 {
			respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
			return
		}

		page, err := fn(r.Context(), query)
		if err != nil {
			respondServiceError(w, r, h.logger, action, err)
			return
		}
		respondOK(w, http.StatusOK, "", RestaurantsResponse{Restaurants: page.Restaurants, Pagination: page.Pagination})
	}
}

func (h *RestaurantHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Recommended(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, "restaurants_recommended_failed", err)
		return
	}
	respondOK(w, http.StatusOK, rec.Message, rec)
}

func (h *RestaurantHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := interfaces.NearbyQuery{
		Range: q.Int("range"),
		Limit: q.Int("limit"),
		Lat:   q.OptFloat("lat"),
		Long:  q.OptFloat("long"),
	}
	if len(q.errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
		return
	}

	list, err := h.service.Nearby(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, h.logger, "restaurants_nearby_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", RestaurantsResponse{Restaurants: list})
}

func (h *RestaurantHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}

	q := newQueryReader(r)
	query := interfaces.DetailQuery{
		LimitMenu:   q.Int("limitMenu"),
		LimitReview: q.Int("limitReview"),
		Lat:         q.OptFloat("lat"),
		Long:        q.OptFloat("long"),
	}
	if len(q.errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
		return
	}

	detail, err := h.service.Detail(r.Context(), id, query)
	if err != nil {
		respondServiceError(w, r, h.logger, "restaurant_detail_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", detail)
}

type ReviewHandler struct {
	service ReviewService
	logger  logger.Logger
}

func NewReviewHandler(service ReviewService, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, logger: logger}
}

type ReviewsResponse struct {
	Reviews    []domain.Review    `json:"reviews"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

func (h *ReviewHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/review", h.Create)
	mux.HandleFunc("GET /api/review/my-reviews", h.Mine)
	mux.HandleFunc("GET /api/review/restaurant/{id}", h.ForRestaurant)
	mux.HandleFunc("PUT /api/review/{id}", h.Update)
	mux.HandleFunc("DELETE /api/review/{id}", h.Delete)
}

func reviewQuery(q *queryReader) interfaces.ReviewQuery {
	return interfaces.ReviewQuery{
		Page:   q.Int("page"),
		Limit:  q.Int("limit"),
		Rating: q.Int("rating"),
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd interfaces.CreateReviewCommand
	if err := decodeJSON(r, &cmd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "review_create_failed", err)
		return
	}
	respondOK(w, http.StatusCreated, "Review created", review)
}

func (h *ReviewHandler) Mine(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	query := reviewQuery(q)
	if len(q.errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
		return
	}

	page, err := h.service.MyReviews(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, h.logger, "reviews_mine_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", ReviewsResponse{Reviews: page.Reviews, Pagination: page.Pagination})
}

func (h *ReviewHandler) ForRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}
	q := newQueryReader(r)
	query := reviewQuery(q)
	if len(q.errs) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, q.errs)
		return
	}

	page, err := h.service.RestaurantReviews(r.Context(), id, query)
	if err != nil {
		respondServiceError(w, r, h.logger, "reviews_restaurant_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "", ReviewsResponse{Reviews: page.Reviews, Pagination: page.Pagination})
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid review id", http.StatusBadRequest, nil)
		return
	}
	var cmd interfaces.UpdateReviewCommand
	if err := decodeJSON(r, &cmd); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), id, cmd)
	if err != nil {
		respondServiceError(w, r, h.logger, "review_update_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Review updated", review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, "Invalid review id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.DeleteReview(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, "review_delete_failed", err)
		return
	}
	respondOK(w, http.StatusOK, "Review deleted", nil)
}
