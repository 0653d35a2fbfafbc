package interfaces

import (
	"context"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

// Интерфейсы удалённого REST API (Adapter/API)
type CartAPI interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddCartItem(ctx context.Context, cmd AddCartItemCommand) (domain.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID, quantity int) error
	DeleteCartItem(ctx context.Context, itemID int) error
	ClearCart(ctx context.Context) error
}

type OrderAPI interface {
	Checkout(ctx context.Context, paymentMethod string) (domain.Transaction, error)
	MyOrders(ctx context.Context, q OrdersQuery) (OrderPage, error)
	UpdateOrderStatus(ctx context.Context, orderID int, status domain.Status) (domain.Transaction, error)
}

type ReviewAPI interface {
	CreateReview(ctx context.Context, cmd CreateReviewCommand) (domain.Review, error)
	RestaurantReviews(ctx context.Context, restaurantID int, q ReviewQuery) (ReviewPage, error)
	MyReviews(ctx context.Context, q ReviewQuery) (ReviewPage, error)
	UpdateReview(ctx context.Context, reviewID int, cmd UpdateReviewCommand) (domain.Review, error)
	DeleteReview(ctx context.Context, reviewID int) error
}

type RestaurantAPI interface {
	ListRestaurants(ctx context.Context, q RestaurantQuery) (RestaurantPage, error)
	RecommendedRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	NearbyRestaurants(ctx context.Context, q NearbyQuery) ([]domain.Restaurant, error)
	BestSellerRestaurants(ctx context.Context, q RestaurantQuery) (RestaurantPage, error)
	SearchRestaurants(ctx context.Context, q RestaurantQuery) (RestaurantPage, error)
	RestaurantDetail(ctx context.Context, id int, q DetailQuery) (domain.RestaurantDetail, error)
}

type AuthAPI interface {
	Login(ctx context.Context, cmd LoginCommand) (AuthResult, error)
	Register(ctx context.Context, cmd RegisterCommand) (AuthResult, error)
	Profile(ctx context.Context) (domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (domain.User, error)
}

// Команды и запросы
type AddCartItemCommand struct {
	RestaurantID int `json:"restaurantId"`
	MenuID       int `json:"menuId"`
	Quantity     int `json:"quantity"`
}

type OrdersQuery struct {
	Status string
	Page   int
	Limit  int
}

type OrderPage struct {
	Orders     []domain.Transaction
	Pagination *domain.Pagination
}

type CreateReviewCommand struct {
	TransactionID string `json:"transactionId"`
	RestaurantID  int    `json:"restaurantId"`
	Star          int    `json:"star"`
	Comment       string `json:"comment,omitempty"`
	MenuIDs       []int  `json:"menuIds,omitempty"`
}

type UpdateReviewCommand struct {
	Star    *int    `json:"star,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

type ReviewQuery struct {
	Page   int
	Limit  int
	Rating int
}

type ReviewPage struct {
	Reviews    []domain.Review
	Pagination *domain.Pagination
}

type RestaurantQuery struct {
	Q        string
	PriceMin *int64
	PriceMax *int64
	Rating   *float64
	Page     int
	Limit    int
	Lat      *float64
	Long     *float64
}

type NearbyQuery struct {
	Range int
	Limit int
	Lat   *float64
	Long  *float64
}

type DetailQuery struct {
	LimitMenu   int
	LimitReview int
	Lat         *float64
	Long        *float64
}

type RestaurantPage struct {
	Restaurants []domain.Restaurant
	Pagination  *domain.Pagination
}

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type UpdateProfileCommand struct {
	Name            string `json:"name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}
