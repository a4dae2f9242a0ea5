package metrics

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Utilization thresholds, in percent.
const (
	WarningThreshold = 80
	DangerThreshold  = 100
)

// Level classifies budget utilization.
type Level string

// Utilization levels.
const (
	LevelGood    Level = "good"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// LevelFor maps a utilization percentage to its level.
func LevelFor(utilization float64) Level {
	switch {
	case utilization >= DangerThreshold:
		return LevelDanger
	case utilization >= WarningThreshold:
		return LevelWarning
	default:
		return LevelGood
	}
}

// BudgetStatus is a budget's standing for the current month.
type BudgetStatus struct {
	Budget      model.Budget
	Spent       decimal.Decimal
	Remaining   decimal.Decimal // negative when over budget
	Utilization float64
	Level       Level
}

// Over reports whether spending has exceeded the budget.
func (s BudgetStatus) Over() bool {
	return s.Remaining.IsNegative()
}

// MonthlySpent sums the expenses in category dated in today's calendar
// month.
func MonthlySpent(list []model.Transaction, category string, today time.Time) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range list {
		if t.IsExpense() && t.Category == category && model.SameMonth(t.Date, today) {
			spent = spent.Add(t.Amount)
		}
	}
	return spent
}

// Utilization computes b's status for the month containing today.
func Utilization(b model.Budget, list []model.Transaction, today time.Time) BudgetStatus {
	spent := MonthlySpent(list, b.Category, today)
	s := BudgetStatus{
		Budget:    b,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
	}
	if b.Amount.IsPositive() {
		s.Utilization = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	s.Level = LevelFor(s.Utilization)
	return s
}

// Statuses computes Utilization for every budget, in budget order.
func Statuses(budgets []model.Budget, list []model.Transaction, today time.Time) []BudgetStatus {
	out := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		out[i] = Utilization(b, list, today)
	}
	return out
}

// BudgetSummary totals every budget for the month.
type BudgetSummary struct {
	Total     decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// SummarizeBudgets adds up the budget statuses.
func SummarizeBudgets(statuses []BudgetStatus) BudgetSummary {
	var s BudgetSummary
	for _, st := range statuses {
		s.Total = s.Total.Add(st.Budget.Amount)
		s.Spent = s.Spent.Add(st.Spent)
	}
	s.Remaining = s.Total.Sub(s.Spent)
	return s
}
