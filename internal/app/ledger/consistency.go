package ledger

import (
	"sort"
	"strconv"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

type normRestaurant struct {
	ID    int
	Name  string
	Items []normItem
}

type normItem struct {
	Name  string
	Price int64
	Qty   int
}

func (i normItem) sortKey() string {
	return i.Name + "-" + strconv.FormatInt(i.Price, 10)
}

// normalize reduces an order breakdown to the fields that matter for
// comparison, in an order independent of the server's ordering.
func normalize(rs []domain.TransactionRestaurant) []normRestaurant {
	out := make([]normRestaurant, 0, len(rs))
	for _, r := range rs {
		items := make([]normItem, 0, len(r.Items))
		for _, it := range r.Items {
			items = append(items, normItem{Name: it.MenuName, Price: it.Price, Qty: it.Quantity})
		}
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].sortKey() < items[b].sortKey()
		})
		out = append(out, normRestaurant{ID: r.Restaurant.ID, Name: r.Restaurant.Name, Items: items})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ID < out[b].ID
	})
	return out
}

// Consistent reports whether two copies of the same order carry the same
// restaurant and item breakdown, regardless of array order.
func Consistent(server, local domain.Transaction) bool {
	a, b := normalize(server.Restaurants), normalize(local.Restaurants)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalRestaurant(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalRestaurant(a, b normRestaurant) bool {
	if a.ID != b.ID || a.Name != b.Name || len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if a.Items[i] != b.Items[i] {
			return false
		}
	}
	return true
}
