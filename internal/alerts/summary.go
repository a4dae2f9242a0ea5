package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/currency"
	"github.com/Veraticus/expense-tracker/internal/ledger"
	"github.com/Veraticus/expense-tracker/internal/metrics"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// SummaryGate decides when the monthly summary is shown. It fires on the
// first day of a month, once per month.
type SummaryGate struct {
	marker string // YYYY-MM of the last month shown
}

// Due reports whether the summary should be shown today.
func (g *SummaryGate) Due(enabled bool, today time.Time) bool {
	return enabled && today.Day() == 1 && g.marker != model.MonthKey(today)
}

// Mark records that the summary for today's month was shown. Marking twice
// is harmless.
func (g *SummaryGate) Mark(today time.Time) {
	g.marker = model.MonthKey(today)
}

// Marker returns the last month marked, or "".
func (g *SummaryGate) Marker() string {
	return g.marker
}

// Load reads the marker from kv. A missing record leaves it empty.
func (g *SummaryGate) Load(ctx context.Context, kv KV) error {
	data, err := kv.Get(ctx, ledger.KeyMonthlySummary)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read summary marker: %w", err)
	}
	g.marker = strings.TrimSpace(string(data))
	return nil
}

// Save writes the marker to kv.
func (g *SummaryGate) Save(ctx context.Context, kv KV) error {
	if err := kv.Put(ctx, ledger.KeyMonthlySummary, []byte(g.marker)); err != nil {
		return fmt.Errorf("failed to save summary marker: %w", err)
	}
	return nil
}

// Summary is the previous month's totals.
type Summary struct {
	Month  time.Time // first day of the summarized month
	Totals metrics.Totals
}

// PreviousMonth totals list for the month before today.
func PreviousMonth(list []model.Transaction, today time.Time) Summary {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
	return Summary{
		Month:  first,
		Totals: metrics.MonthSummary(list, first.Year(), first.Month()),
	}
}

// Message renders the summary in the ledger currency.
func (s Summary) Message(code string) string {
	return fmt.Sprintf("%s summary: income %s, expenses %s, balance %s",
		s.Month.Format("January 2006"),
		currency.Format(s.Totals.Income, code),
		currency.Format(s.Totals.Expense, code),
		currency.Format(s.Totals.Balance, code))
}
