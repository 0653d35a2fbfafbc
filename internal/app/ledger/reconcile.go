package ledger

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

// Filter narrows an order listing
type Filter struct {
	Status         domain.Status
	Search         string
	ActionableOnly bool
}

// Listing is the reconciled view of a user's orders. Server holds the
// server copies that agree with (or have no) local copy, LocalFallback the
// local copies that the server lacks or contradicts.
type Listing struct {
	Server        []domain.Transaction `json:"server"`
	LocalFallback []domain.Transaction `json:"localFallback"`
	// Confirmed and Inconsistent are unfiltered
	Confirmed    []domain.Transaction `json:"-"`
	Inconsistent []string             `json:"inconsistent,omitempty"`
}

// All returns local fallbacks followed by server orders, newest first
func (l Listing) All() []domain.Transaction {
	all := make([]domain.Transaction, 0, len(l.Server)+len(l.LocalFallback))
	all = append(all, l.LocalFallback...)
	all = append(all, l.Server...)
	SortByRecency(all)
	return all
}

func Reconcile(server, local []domain.Transaction, f Filter) Listing {
	serverByID := make(map[string]domain.Transaction, len(server))
	for _, o := range server {
		if o.TransactionID != "" {
			serverByID[o.TransactionID] = o
		}
	}

	var out Listing
	inconsistent := make(map[string]bool)
	localStatus := make(map[string]domain.Status)

	for _, lo := range local {
		if lo.TransactionID == "" {
			continue
		}
		so, ok := serverByID[lo.TransactionID]
		switch {
		case !ok:
			out.LocalFallback = append(out.LocalFallback, lo)
		case !Consistent(so, lo):
			inconsistent[lo.TransactionID] = true
			out.Inconsistent = append(out.Inconsistent, lo.TransactionID)
			out.LocalFallback = append(out.LocalFallback, lo)
		default:
			localStatus[lo.TransactionID] = lo.Status
		}
	}

	for _, so := range server {
		if inconsistent[so.TransactionID] {
			continue
		}
		if ls, ok := localStatus[so.TransactionID]; ok {
			if ls.Rank() > so.Status.Rank() {
				so.Status = ls
			}
			out.Confirmed = append(out.Confirmed, so)
		}
		out.Server = append(out.Server, so)
	}

	out.Server = applyFilter(out.Server, f)
	out.LocalFallback = applyFilter(out.LocalFallback, f)
	SortByRecency(out.Server)
	SortByRecency(out.LocalFallback)
	return out
}

func applyFilter(orders []domain.Transaction, f Filter) []domain.Transaction {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Transaction, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ActionableOnly && !o.Status.Actionable() {
			continue
		}
		if q != "" && !mentionsMenu(o, q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func mentionsMenu(o domain.Transaction, q string) bool {
	for _, r := range o.Restaurants {
		for _, it := range r.Items {
			if strings.Contains(strings.ToLower(it.MenuName), q) {
				return true
			}
		}
	}
	return false
}

var nonDigits = regexp.MustCompile(`\D`)

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RecencyOf orders transactions by creation time in unix milliseconds,
// falling back to the digits of the transaction id. Digits are read as a
// float so ids longer than int64 still sort by magnitude.
func RecencyOf(tx domain.Transaction) float64 {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, tx.CreatedAt); err == nil {
			return float64(t.UnixMilli())
		}
	}
	digits := nonDigits.ReplaceAllString(tx.TransactionID, "")
	if digits == "" {
		return 0
	}
	// ErrRange still yields +Inf, which sorts first
	n, _ := strconv.ParseFloat(digits, 64)
	return n
}

// SortByRecency sorts newest first
func SortByRecency(orders []domain.Transaction) {
	sort.SliceStable(orders, func(a, b int) bool {
		return RecencyOf(orders[a]) > RecencyOf(orders[b])
	})
}
