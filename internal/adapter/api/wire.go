package api

import (
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

// Wire types mirror the remote JSON. Required fields are pointers so that
// an absent field is told apart from a zero value.

type wireRestaurantRef struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
	Logo string  `json:"logo"`
}

func (w *wireRestaurantRef) check(s *schemaCheck, at string) {
	if w == nil {
		s.require(false, at)
		return
	}
	s.require(w.ID != nil, at+".id")
}

func (w *wireRestaurantRef) toDomain() domain.RestaurantRef {
	ref := domain.RestaurantRef{ID: *w.ID, Logo: w.Logo}
	if w.Name != nil {
		ref.Name = *w.Name
	}
	return ref
}

type wireMenu struct {
	ID       *int    `json:"id"`
	FoodName *string `json:"foodName"`
	Price    *int64  `json:"price"`
	Type     string  `json:"type"`
	Image    string  `json:"image"`
}

func (w *wireMenu) check(s *schemaCheck, at string) {
	if w == nil {
		s.require(false, at)
		return
	}
	s.require(w.ID != nil, at+".id")
	s.require(w.FoodName != nil, at+".foodName")
	s.require(w.Price != nil && *w.Price >= 0, at+".price")
}

func (w *wireMenu) toSnapshot() domain.MenuSnapshot {
	return domain.MenuSnapshot{ID: *w.ID, FoodName: *w.FoodName, Price: *w.Price, Type: w.Type, Image: w.Image}
}

type wireCartItem struct {
	ID        *int      `json:"id"`
	Menu      *wireMenu `json:"menu"`
	Quantity  *int      `json:"quantity"`
	ItemTotal *int64    `json:"itemTotal"`
}

func (w *wireCartItem) check(s *schemaCheck, at string) {
	s.require(w.ID != nil, at+".id")
	s.require(w.Quantity != nil && *w.Quantity >= 0, at+".quantity")
	w.Menu.check(s, at+".menu")
}

func (w *wireCartItem) toDomain() domain.CartItem {
	it := domain.CartItem{ID: *w.ID, Menu: w.Menu.toSnapshot(), Quantity: *w.Quantity}
	if w.ItemTotal != nil {
		it.ItemTotal = *w.ItemTotal
	} else {
		it.ItemTotal = it.Menu.Price * int64(it.Quantity)
	}
	return it
}

type wireCartGroup struct {
	Restaurant *wireRestaurantRef `json:"restaurant"`
	Items      *[]wireCartItem    `json:"items"`
}

type wireCart struct {
	Cart *[]wireCartGroup `json:"cart"`
}

func (w *wireCart) check(s *schemaCheck) {
	s.require(w.Cart != nil, "data.cart")
	if w.Cart == nil {
		return
	}
	for i, g := range *w.Cart {
		at := fmt.Sprintf("data.cart[%d]", i)
		g.Restaurant.check(s, at+".restaurant")
		s.require(g.Items != nil, at+".items")
		if g.Items == nil {
			continue
		}
		for j := range *g.Items {
			(*g.Items)[j].check(s, fmt.Sprintf("%s.items[%d]", at, j))
		}
	}
}

// toDomain returns the groups with server values kept as-is. Subtotals and
// summary are recomputed by the caller.
func (w *wireCart) toDomain() []domain.CartGroup {
	groups := make([]domain.CartGroup, 0, len(*w.Cart))
	for _, g := range *w.Cart {
		items := make([]domain.CartItem, 0, len(*g.Items))
		for _, it := range *g.Items {
			items = append(items, it.toDomain())
		}
		groups = append(groups, domain.CartGroup{Restaurant: g.Restaurant.toDomain(), Items: items})
	}
	return groups
}

// wireAddedItem is the cart line echoed back by POST /api/cart
type wireAddedItem struct {
	wireCartItem
}

func (w *wireAddedItem) check(s *schemaCheck) {
	s.require(w.ID != nil, "data.id")
	s.require(w.Quantity != nil, "data.quantity")
	if w.Menu != nil {
		w.Menu.check(s, "data.menu")
	}
}

func (w *wireAddedItem) toDomain() domain.CartItem {
	it := domain.CartItem{ID: *w.ID, Quantity: *w.Quantity}
	if w.Menu != nil {
		it.Menu = w.Menu.toSnapshot()
	}
	if w.ItemTotal != nil {
		it.ItemTotal = *w.ItemTotal
	} else {
		it.ItemTotal = it.Menu.Price * int64(it.Quantity)
	}
	return it
}

type wireTransactionItem struct {
	MenuID    *int    `json:"menuId"`
	MenuName  *string `json:"menuName"`
	Price     *int64  `json:"price"`
	Quantity  *int    `json:"quantity"`
	ItemTotal *int64  `json:"itemTotal"`
	Image     string  `json:"image"`
}

type wireTransactionRestaurant struct {
	Restaurant *wireRestaurantRef     `json:"restaurant"`
	Items      *[]wireTransactionItem `json:"items"`
	Subtotal   *int64                 `json:"subtotal"`
}

type wirePricing struct {
	Subtotal    *int64 `json:"subtotal"`
	ServiceFee  *int64 `json:"serviceFee"`
	DeliveryFee *int64 `json:"deliveryFee"`
	TotalPrice  *int64 `json:"totalPrice"`
}

type wireTransaction struct {
	ID            *int                         `json:"id"`
	TransactionID *string                      `json:"transactionId"`
	PaymentMethod string                       `json:"paymentMethod"`
	Status        *string                      `json:"status"`
	Restaurants   *[]wireTransactionRestaurant `json:"restaurants"`
	Pricing       *wirePricing                 `json:"pricing"`
	CreatedAt     string                       `json:"createdAt"`
}

// check validates a transaction from an order listing. Every order there
// must be identifiable and carry a known status.
func (w *wireTransaction) check(s *schemaCheck, at string) {
	s.require(w.TransactionID != nil && *w.TransactionID != "", at+".transactionId")
	s.require(w.Status != nil, at+".status")
	w.checkBreakdown(s, at)
}

func (w *wireTransaction) checkBreakdown(s *schemaCheck, at string) {
	if w.Status != nil && *w.Status != "" {
		s.require(domain.Status(*w.Status).Valid(), at+".status")
	}
	if w.Restaurants == nil {
		return
	}
	for i, r := range *w.Restaurants {
		rat := fmt.Sprintf("%s.restaurants[%d]", at, i)
		r.Restaurant.check(s, rat+".restaurant")
		if r.Items == nil {
			continue
		}
		for j, it := range *r.Items {
			iat := fmt.Sprintf("%s.items[%d]", rat, j)
			s.require(it.MenuName != nil, iat+".menuName")
			s.require(it.Price != nil, iat+".price")
			s.require(it.Quantity != nil, iat+".quantity")
		}
	}
}

func (w *wireTransaction) toDomain() domain.Transaction {
	tx := domain.Transaction{
		ID:            w.ID,
		PaymentMethod: w.PaymentMethod,
		CreatedAt:     w.CreatedAt,
	}
	if w.TransactionID != nil {
		tx.TransactionID = *w.TransactionID
	}
	if w.Status != nil {
		tx.Status = domain.Status(*w.Status)
	}
	if w.Restaurants != nil {
		for _, r := range *w.Restaurants {
			tr := domain.TransactionRestaurant{Restaurant: r.Restaurant.toDomain()}
			if r.Items != nil {
				for _, it := range *r.Items {
					tr.Items = append(tr.Items, it.toDomain())
				}
			}
			if r.Subtotal != nil {
				tr.Subtotal = *r.Subtotal
			}
			tx.Restaurants = append(tx.Restaurants, tr)
		}
	}
	if w.Pricing != nil {
		tx.Pricing = w.Pricing.toDomain()
	}
	return tx
}

func (w wireTransactionItem) toDomain() domain.TransactionItem {
	it := domain.TransactionItem{MenuName: *w.MenuName, Price: *w.Price, Quantity: *w.Quantity, Image: w.Image}
	if w.MenuID != nil {
		it.MenuID = *w.MenuID
	}
	if w.ItemTotal != nil {
		it.ItemTotal = *w.ItemTotal
	} else {
		it.ItemTotal = it.Price * int64(it.Quantity)
	}
	return it
}

func (w *wirePricing) toDomain() domain.Pricing {
	var p domain.Pricing
	if w.Subtotal != nil {
		p.Subtotal = *w.Subtotal
	}
	if w.ServiceFee != nil {
		p.ServiceFee = *w.ServiceFee
	}
	if w.DeliveryFee != nil {
		p.DeliveryFee = *w.DeliveryFee
	}
	if w.TotalPrice != nil {
		p.TotalPrice = *w.TotalPrice
	}
	return p
}

// wireCheckout is the checkout answer. Every transaction field is optional
// there, the caller fills the gaps from the cart.
type wireCheckout struct {
	Transaction *wireTransaction `json:"transaction"`
}

func (w *wireCheckout) check(s *schemaCheck) {
	if w.Transaction != nil {
		w.Transaction.checkBreakdown(s, "data.transaction")
	}
}

type wireOrders struct {
	Orders     *[]wireTransaction `json:"orders"`
	Pagination *domain.Pagination `json:"pagination"`
}

func (w *wireOrders) check(s *schemaCheck) {
	s.require(w.Orders != nil, "data.orders")
	if w.Orders == nil {
		return
	}
	for i := range *w.Orders {
		(*w.Orders)[i].check(s, fmt.Sprintf("data.orders[%d]", i))
	}
}

type wireOrder struct {
	wireTransaction
}

func (w *wireOrder) check(s *schemaCheck) {
	w.wireTransaction.check(s, "data")
}

type wireRestaurant struct {
	ID         *int               `json:"id"`
	Name       *string            `json:"name"`
	Logo       string             `json:"logo"`
	Place      string             `json:"place"`
	Star       float64            `json:"star"`
	Distance   *float64           `json:"distance"`
	PriceRange *domain.PriceRange `json:"priceRange"`
	Images     []string           `json:"images"`
}

func (w *wireRestaurant) check(s *schemaCheck, at string) {
	s.require(w.ID != nil, at+".id")
	s.require(w.Name != nil, at+".name")
}

func (w *wireRestaurant) toDomain() domain.Restaurant {
	return domain.Restaurant{
		ID:         *w.ID,
		Name:       *w.Name,
		Logo:       w.Logo,
		Place:      w.Place,
		Star:       w.Star,
		Distance:   w.Distance,
		PriceRange: w.PriceRange,
		Images:     w.Images,
	}
}

func restaurantsToDomain(ws []wireRestaurant) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(ws))
	for i := range ws {
		out = append(out, ws[i].toDomain())
	}
	return out
}

type wireRestaurantList struct {
	Restaurants *[]wireRestaurant  `json:"restaurants"`
	Pagination  *domain.Pagination `json:"pagination"`
}

func (w *wireRestaurantList) check(s *schemaCheck) {
	s.require(w.Restaurants != nil, "data.restaurants")
	if w.Restaurants == nil {
		return
	}
	for i := range *w.Restaurants {
		(*w.Restaurants)[i].check(s, fmt.Sprintf("data.restaurants[%d]", i))
	}
}

type wireRecommended struct {
	Recommendations *[]wireRestaurant `json:"recommendations"`
}

func (w *wireRecommended) check(s *schemaCheck) {
	s.require(w.Recommendations != nil, "data.recommendations")
	if w.Recommendations == nil {
		return
	}
	for i := range *w.Recommendations {
		(*w.Recommendations)[i].check(s, fmt.Sprintf("data.recommendations[%d]", i))
	}
}

type wireRestaurantDetail struct {
	wireRestaurant
	Menus   *[]wireMenu  `json:"menus"`
	Reviews []wireReview `json:"reviews"`
}

func (w *wireRestaurantDetail) check(s *schemaCheck) {
	w.wireRestaurant.check(s, "data")
	s.require(w.Menus != nil, "data.menus")
	if w.Menus != nil {
		for i := range *w.Menus {
			(*w.Menus)[i].check(s, fmt.Sprintf("data.menus[%d]", i))
		}
	}
	for i := range w.Reviews {
		w.Reviews[i].check(s, fmt.Sprintf("data.reviews[%d]", i))
	}
}

func (w *wireRestaurantDetail) toDomain() domain.RestaurantDetail {
	d := domain.RestaurantDetail{Restaurant: w.wireRestaurant.toDomain()}
	for _, m := range *w.Menus {
		snap := m.toSnapshot()
		d.Menus = append(d.Menus, domain.MenuItem{
			ID:       snap.ID,
			FoodName: snap.FoodName,
			Price:    snap.Price,
			Type:     snap.Type,
			Image:    snap.Image,
		})
	}
	for i := range w.Reviews {
		d.Reviews = append(d.Reviews, w.Reviews[i].toDomain())
	}
	return d
}

type wireReview struct {
	ID            *int               `json:"id"`
	Star          *int               `json:"star"`
	Comment       string             `json:"comment"`
	TransactionID string             `json:"transactionId"`
	Restaurant    *wireRestaurantRef `json:"restaurant"`
	MenuIDs       []int              `json:"menuIds"`
	CreatedAt     string             `json:"createdAt"`
}

func (w *wireReview) check(s *schemaCheck, at string) {
	s.require(w.ID != nil, at+".id")
	s.require(w.Star != nil && domain.ValidStar(*w.Star), at+".star")
	if w.Restaurant != nil {
		w.Restaurant.check(s, at+".restaurant")
	}
}

func (w *wireReview) toDomain() domain.Review {
	r := domain.Review{
		ID:            *w.ID,
		Star:          *w.Star,
		Comment:       w.Comment,
		TransactionID: w.TransactionID,
		MenuIDs:       w.MenuIDs,
		CreatedAt:     w.CreatedAt,
	}
	if w.Restaurant != nil {
		ref := w.Restaurant.toDomain()
		r.Restaurant = &ref
	}
	return r
}

type wireSingleReview struct {
	wireReview
}

func (w *wireSingleReview) check(s *schemaCheck) {
	w.wireReview.check(s, "data")
}

type wireReviewList struct {
	Reviews    *[]wireReview      `json:"reviews"`
	Pagination *domain.Pagination `json:"pagination"`
}

func (w *wireReviewList) check(s *schemaCheck) {
	s.require(w.Reviews != nil, "data.reviews")
	if w.Reviews == nil {
		return
	}
	for i := range *w.Reviews {
		(*w.Reviews)[i].check(s, fmt.Sprintf("data.reviews[%d]", i))
	}
}

func (w *wireReviewList) toDomain() []domain.Review {
	out := make([]domain.Review, 0, len(*w.Reviews))
	for i := range *w.Reviews {
		out = append(out, (*w.Reviews)[i].toDomain())
	}
	return out
}

type wireUser struct {
	ID     *int    `json:"id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  string  `json:"phone"`
	Avatar string  `json:"avatar"`
}

func (w *wireUser) checkAt(s *schemaCheck, at string) {
	if w == nil {
		s.require(false, at)
		return
	}
	s.require(w.ID != nil, at+".id")
	s.require(w.Name != nil, at+".name")
	s.require(w.Email != nil, at+".email")
}

func (w *wireUser) check(s *schemaCheck) {
	w.checkAt(s, "data")
}

func (w *wireUser) toDomain() domain.User {
	return domain.User{ID: *w.ID, Name: *w.Name, Email: *w.Email, Phone: w.Phone, Avatar: w.Avatar}
}

type wireAuth struct {
	User  *wireUser `json:"user"`
	Token *string   `json:"token"`
}

func (w *wireAuth) check(s *schemaCheck) {
	w.User.checkAt(s, "data.user")
	s.require(w.Token != nil && *w.Token != "", "data.token")
}
