package domain

import "errors"

type Restaurant struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Logo       string      `json:"logo,omitempty"`
	Place      string      `json:"place,omitempty"`
	Star       float64     `json:"star"`
	Distance   *float64    `json:"distance,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Images     []string    `json:"images,omitempty"`
}

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type MenuItem struct {
	ID       int    `json:"id"`
	FoodName string `json:"foodName"`
	Price    int64  `json:"price"`
	Type     string `json:"type,omitempty"`
	Image    string `json:"image,omitempty"`
}

type RestaurantDetail struct {
	Restaurant
	Menus   []MenuItem `json:"menus"`
	Reviews []Review   `json:"reviews,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Review struct {
	ID            int            `json:"id"`
	Star          int            `json:"star"`
	Comment       string         `json:"comment,omitempty"`
	TransactionID string         `json:"transactionId,omitempty"`
	Restaurant    *RestaurantRef `json:"restaurant,omitempty"`
	MenuIDs       []int          `json:"menuIds,omitempty"`
	CreatedAt     string         `json:"createdAt,omitempty"`
}

type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// ValidStar checks the 1-5 review rating range
func ValidStar(star int) bool {
	return star >= 1 && star <= 5
}

var ErrInvalidReview = errors.New("invalid review")
