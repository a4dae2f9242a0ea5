// Package query filters, sorts and pages the transaction list, and slices
// it into comparison windows for the dashboard. Every function is pure: the
// input slice is never modified.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// All matches every category or type.
const All = "all"

// SortField selects the sort key.
type SortField string

// Sort fields.
const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
)

// Sort is a sort key and direction.
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort lists the newest transactions first.
var DefaultSort = Sort{Field: SortByDate, Desc: true}

// String renders the sort in the "field-direction" form ParseSort accepts.
func (s Sort) String() string {
	dir := "asc"
	if s.Desc {
		dir = "desc"
	}
	return string(s.Field) + "-" + dir
}

// ParseSort parses "date-desc", "amount-asc" and so on. A bare field sorts
// ascending.
func ParseSort(s string) (Sort, error) {
	field, dir, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	out := Sort{Field: SortField(field)}
	switch out.Field {
	case SortByDate, SortByAmount:
	default:
		return Sort{}, fmt.Errorf("unknown sort field %q (want date or amount)", field)
	}
	switch dir {
	case "", "asc":
	case "desc":
		out.Desc = true
	default:
		return Sort{}, fmt.Errorf("unknown sort direction %q (want asc or desc)", dir)
	}
	return out, nil
}

// Filter selects and orders transactions for the list view. Window picks
// the dashboard period and is not applied by Apply.
type Filter struct {
	Category string
	Type     string
	Search   string
	Sort     Sort
	Window   Window
}

// DefaultFilter shows everything, newest first, with a 30-day dashboard.
func DefaultFilter() Filter {
	return Filter{
		Category: All,
		Type:     All,
		Sort:     DefaultSort,
		Window:   DefaultWindow,
	}
}

// Matches reports whether t passes the category, type and search filters.
func (f Filter) Matches(t model.Transaction) bool {
	if f.Category != "" && f.Category != All && t.Category != f.Category {
		return false
	}
	if f.Type != "" && f.Type != All && string(t.Type) != f.Type {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.Category), needle) {
			return false
		}
	}
	return true
}

// Apply returns the transactions matching f, sorted by f.Sort. Ties keep
// their order from list.
func Apply(list []model.Transaction, f Filter) []model.Transaction {
	out := make([]model.Transaction, 0, len(list))
	for _, t := range list {
		if f.Matches(t) {
			out = append(out, t)
		}
	}

	sortBy := f.Sort
	if sortBy.Field == "" {
		sortBy = DefaultSort
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		var c int
		switch sortBy.Field {
		case SortByAmount:
			c = a.Amount.Cmp(b.Amount)
		default:
			c = a.Date.Compare(b.Date)
		}
		if sortBy.Desc {
			return -c
		}
		return c
	})
	return out
}

// Categories returns the distinct categories in list, sorted.
func Categories(list []model.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range list {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}

// Recent returns up to n of the most recently added transactions, newest
// first.
func Recent(list []model.Transaction, n int) []model.Transaction {
	if n > len(list) {
		n = len(list)
	}
	out := make([]model.Transaction, 0, max(n, 0))
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}
	return out
}
