package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/currency"
	"github.com/Veraticus/expense-tracker/internal/metrics"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/storage"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// signedAmount renders income with a plus and expenses with a minus.
func signedAmount(t model.Transaction, code string) string {
	amount := currency.Format(t.Amount, code)
	if t.IsIncome() {
		return IncomeStyle.Render("+" + amount)
	}
	return ExpenseStyle.Render("-" + amount)
}

// RenderTransactions lays out transactions as a table.
func RenderTransactions(list []model.Transaction, code string) string {
	if len(list) == 0 {
		return SubtleStyle.Render("No transactions found")
	}
	t := newTable("ID", "Date", "Description", "Category", "Payment", "Amount")
	for _, tx := range list {
		t.Row(shortID(tx.ID), model.FormatDate(tx.Date), tx.Description, tx.Category, tx.PaymentMethod, signedAmount(tx, code))
	}
	return t.Render()
}

// shortID trims uuids for display. Any unique prefix is accepted where an
// id is expected.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderBudgets lays out budget statuses with their utilization level.
func RenderBudgets(statuses []metrics.BudgetStatus, code string) string {
	if len(statuses) == 0 {
		return SubtleStyle.Render("No budgets set")
	}
	t := newTable("Category", "Budget", "Spent", "Remaining", "Used")
	for _, s := range statuses {
		used := LevelStyle(s.Level).Render(fmt.Sprintf("%.0f%%", s.Utilization))
		t.Row(s.Budget.Category,
			currency.Format(s.Budget.Amount, code),
			currency.Format(s.Spent, code),
			currency.Format(s.Remaining, code),
			used)
	}
	return t.Render()
}

func change(pct float64, show bool) string {
	if !show {
		return ""
	}
	text := fmt.Sprintf("%+.1f%%", pct)
	if pct < 0 {
		return ExpenseStyle.Render(text)
	}
	return IncomeStyle.Render(text)
}

// RenderDashboard lays out the headline totals with their change from the
// previous window.
func RenderDashboard(d metrics.Dashboard, code string) string {
	t := newTable("", d.Window.Label(), "Change")
	t.Row("Income", currency.Format(d.Current.Income, code), change(d.IncomeChange, d.HasPrevious))
	t.Row("Expenses", currency.Format(d.Current.Expense, code), change(d.ExpenseChange, d.HasPrevious))
	t.Row("Balance", currency.Format(d.Current.Balance, code), change(d.BalanceChange, d.HasPrevious))
	t.Row("Savings rate", fmt.Sprintf("%.1f%%", d.SavingsRate), change(d.SavingsChange, d.HasPrevious))
	return t.Render()
}

// RenderCategories lays out category totals with a share bar.
func RenderCategories(totals []metrics.CategoryTotal, code string) string {
	if len(totals) == 0 {
		return SubtleStyle.Render("No expenses")
	}
	t := newTable("Category", "Spent", "Share")
	for _, c := range totals {
		bar := strings.Repeat("█", int(c.Share/5))
		t.Row(c.Category, currency.Format(c.Amount, code), fmt.Sprintf("%-20s %5.1f%%", bar, c.Share))
	}
	return t.Render()
}

// RenderHealth summarizes a health score.
func RenderHealth(h metrics.Health) string {
	style := IncomeStyle
	switch {
	case h.Score < 40:
		style = ExpenseStyle
	case h.Score < 70:
		style = WarningStyle
	}
	return fmt.Sprintf("%s\n\nSavings rate  %6.1f%%\nAdherence     %6.1f%%\nConsistency   %6.1f%%",
		style.Bold(true).Render(fmt.Sprintf("Score %d/100", h.Score)),
		h.SavingsRate, h.Adherence, h.Consistency)
}

// RenderTrend lays out daily income and expense totals.
func RenderTrend(days []metrics.DayTotal, code string) string {
	if len(days) == 0 {
		return SubtleStyle.Render("No transactions")
	}
	t := newTable("Date", "Income", "Expenses")
	for _, d := range days {
		t.Row(model.FormatDate(d.Date), currency.Format(d.Income, code), currency.Format(d.Expense, code))
	}
	return t.Render()
}

// RenderRates lays out the rate of every supported currency against base.
func RenderRates(t currency.Table, base string) string {
	out := newTable("Currency", "Per 1 "+base)
	for _, code := range model.SupportedCurrencies {
		rate, err := t.Rate(base, code)
		if err != nil {
			continue
		}
		out.Row(code+" "+currency.Symbol(code), rate.StringFixed(4))
	}
	updated := "never refreshed"
	if !t.UpdatedAt.IsZero() {
		updated = "updated " + t.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	return out.Render() + "\n" + SubtleStyle.Render(updated)
}

// RenderSettings lists the preferences.
func RenderSettings(s model.Settings) string {
	onOff := func(on bool) string {
		if on {
			return IncomeStyle.Render("on")
		}
		return SubtleStyle.Render("off")
	}
	t := newTable("Setting", "Value")
	t.Row("Currency", s.Currency+" "+currency.Symbol(s.Currency))
	t.Row("Theme", string(s.Theme))
	t.Row("Auto-save", onOff(s.AutoSave))
	t.Row("Budget alerts", onOff(s.BudgetAlerts))
	t.Row("Monthly summary", onOff(s.MonthlySummary))
	return t.Render()
}

// RenderBackups lists recorded backups.
func RenderBackups(backups []storage.BackupInfo) string {
	if len(backups) == 0 {
		return SubtleStyle.Render("No backups yet")
	}
	t := newTable("Created", "Records", "Size", "Path")
	for _, b := range backups {
		t.Row(b.CreatedAt.Local().Format("2006-01-02 15:04"), fmt.Sprint(b.Records), fmt.Sprintf("%.1f KB", float64(b.Size)/1024), b.Path)
	}
	return t.Render()
}
