// Package metrics derives dashboard numbers from the transaction list:
// totals, period-over-period changes, budget utilization and the financial
// health score.
//
// Money is summed with decimal arithmetic. Ratios and percentages are
// float64 because they are only ever displayed.
package metrics

import (
	"math"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/query"
	"github.com/shopspring/decimal"
)

// Totals are the income, expense and balance of a set of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// Sum totals list. Balance is always Income minus Expense.
func Sum(list []model.Transaction) Totals {
	var t Totals
	for _, tx := range list {
		switch tx.Type {
		case model.TypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case model.TypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	t.Count = len(list)
	return t
}

// SavingsRate is the share of income kept, in percent. It is 0 when there
// is no income.
func (t Totals) SavingsRate() float64 {
	return SavingsRate(t.Income, t.Balance)
}

// SavingsRate returns balance/income*100, or 0 when income is not positive.
func SavingsRate(income, balance decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	return balance.Div(income).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// PercentageChange compares current with previous. A zero previous value
// yields 100 when current is positive and 0 otherwise.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// DecimalChange is PercentageChange for money amounts.
func DecimalChange(current, previous decimal.Decimal) float64 {
	return PercentageChange(current.InexactFloat64(), previous.InexactFloat64())
}

// Dashboard is the headline view for one window.
type Dashboard struct {
	Window        query.Window
	Current       Totals
	Previous      Totals
	SavingsRate   float64
	IncomeChange  float64
	ExpenseChange float64
	BalanceChange float64
	SavingsChange float64
	// HasPrevious is false for the all-time window, where changes are
	// computed against an empty period.
	HasPrevious bool
}

// BuildDashboard computes totals for the current and previous windows and
// the change between them.
func BuildDashboard(list []model.Transaction, w query.Window, today time.Time) Dashboard {
	current, previous := query.Split(list, w, today)
	cur, prev := Sum(current), Sum(previous)

	d := Dashboard{
		Window:        w,
		Current:       cur,
		Previous:      prev,
		SavingsRate:   cur.SavingsRate(),
		IncomeChange:  DecimalChange(cur.Income, prev.Income),
		ExpenseChange: DecimalChange(cur.Expense, prev.Expense),
		BalanceChange: DecimalChange(cur.Balance, prev.Balance),
		HasPrevious:   !w.All,
	}
	d.SavingsChange = PercentageChange(d.SavingsRate, prev.SavingsRate())
	return d
}

// MonthSummary totals the transactions dated in the given calendar month.
func MonthSummary(list []model.Transaction, year int, month time.Month) Totals {
	var in []model.Transaction
	for _, t := range list {
		if t.Date.Year() == year && t.Date.Month() == month {
			in = append(in, t)
		}
	}
	return Sum(in)
}
