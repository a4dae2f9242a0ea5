package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// Period is a calendar-aligned analytics range ending today.
type Period string

// Analytics periods.
const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = All
)

// ParsePeriod parses month, quarter, year or all.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodMonth, PeriodQuarter, PeriodYear, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("invalid period %q (want month, quarter, year or all)", s)
	}
}

// Start returns the first day of the period containing today. The zero
// time means the period is unbounded.
func (p Period) Start(today time.Time) time.Time {
	today = model.DateOf(today)
	y, m, _ := today.Date()
	switch p {
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case PeriodQuarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Since returns the transactions dated on or after the start of p.
func Since(list []model.Transaction, p Period, today time.Time) []model.Transaction {
	start := p.Start(today)
	var out []model.Transaction
	for _, t := range list {
		if !t.Date.Before(start) {
			out = append(out, t)
		}
	}
	return out
}
