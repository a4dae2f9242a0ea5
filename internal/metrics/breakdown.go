package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the expense total for one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Share    float64 // percent of all expenses
}

// CategoryBreakdown totals expenses per category in order of first
// appearance.
func CategoryBreakdown(list []model.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	total := decimal.Zero
	for _, t := range list {
		if !t.IsExpense() {
			continue
		}
		total = total.Add(t.Amount)
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	if total.IsPositive() {
		for i := range out {
			out[i].Share = out[i].Amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
	}
	return out
}

// TopCategories returns the n categories with the highest expense totals.
// Equal totals keep first-appearance order.
func TopCategories(list []model.Transaction, n int) []CategoryTotal {
	out := CategoryBreakdown(list)
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Amount.Cmp(a.Amount)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DayTotal is the income and expense booked on one date.
type DayTotal struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// DailyTrend groups list by date, oldest first.
func DailyTrend(list []model.Transaction) []DayTotal {
	byDay := make(map[int64]*DayTotal)
	for _, t := range list {
		key := t.Date.Unix()
		d, ok := byDay[key]
		if !ok {
			d = &DayTotal{Date: t.Date}
			byDay[key] = d
		}
		if t.IsIncome() {
			d.Income = d.Income.Add(t.Amount)
		} else {
			d.Expense = d.Expense.Add(t.Amount)
		}
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b DayTotal) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})
	return out
}
