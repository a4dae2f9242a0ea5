package metrics

import (
	"math"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// Health score weights.
const (
	savingsWeight     = 0.4
	adherenceWeight   = 0.4
	consistencyWeight = 0.2
)

// Health is the composite financial health score and its inputs.
type Health struct {
	Score       int
	SavingsRate float64
	Adherence   float64
	Consistency float64
}

// FinancialHealth scores the transactions in list against the current
// budget statuses. The score is in [0, 100].
func FinancialHealth(list []model.Transaction, statuses []BudgetStatus) Health {
	h := Health{
		SavingsRate: Sum(list).SavingsRate(),
		Adherence:   BudgetAdherence(statuses),
		Consistency: ExpenseConsistency(list),
	}
	raw := math.Max(0, h.SavingsRate)*savingsWeight +
		h.Adherence*adherenceWeight +
		h.Consistency*consistencyWeight
	h.Score = int(math.Min(100, math.Max(0, math.Round(raw))))
	return h
}

// BudgetAdherence is the mean of max(0, 100-utilization) over all budgets.
// With no budgets it is 100.
func BudgetAdherence(statuses []BudgetStatus) float64 {
	if len(statuses) == 0 {
		return 100
	}
	var total float64
	for _, s := range statuses {
		total += math.Max(0, 100-s.Utilization)
	}
	return total / float64(len(statuses))
}

// ExpenseConsistency is max(0, 100-CV%) where CV is the coefficient of
// variation of monthly expense totals, using population variance. Fewer
// than two months of expenses count as fully consistent.
func ExpenseConsistency(list []model.Transaction) float64 {
	monthly := MonthlyExpenses(list)
	if len(monthly) < 2 {
		return 100
	}
	return math.Max(0, 100-CoefficientOfVariation(monthly))
}

// MonthlyExpenses sums expenses per calendar month, keyed YYYY-MM.
func MonthlyExpenses(list []model.Transaction) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range list {
		if t.IsExpense() {
			out[model.MonthKey(t.Date)] += t.Amount.InexactFloat64()
		}
	}
	return out
}

// CoefficientOfVariation returns stddev/mean*100 of values using population
// variance. It is 0 when the mean is not positive.
func CoefficientOfVariation(values map[string]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean <= 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= n
	return math.Sqrt(variance) / mean * 100
}
