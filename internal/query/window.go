package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// Window is a dashboard period: the last Days days, or every transaction
// when All is set.
type Window struct {
	Days int
	All  bool
}

// DefaultWindow is the last 30 days.
var DefaultWindow = Window{Days: 30}

// AllTime covers every transaction and has no previous period.
var AllTime = Window{All: true}

// String renders the window in the form ParseWindow accepts.
func (w Window) String() string {
	if w.All {
		return All
	}
	return strconv.Itoa(w.Days)
}

// Label is a human-readable description of the window.
func (w Window) Label() string {
	if w.All {
		return "all time"
	}
	if w.Days == 1 {
		return "last day"
	}
	return fmt.Sprintf("last %d days", w.Days)
}

// ParseWindow parses a positive day count or "all".
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == All {
		return AllTime, nil
	}
	days, err := strconv.Atoi(s)
	if err != nil || days <= 0 {
		return Window{}, fmt.Errorf("invalid window %q (want a positive number of days or %q)", s, All)
	}
	return Window{Days: days}, nil
}

// Split partitions list into the current window (date >= today-d) and the
// equally long window before it (today-2d <= date < today-d). For AllTime
// current is the whole list and previous is empty.
func Split(list []model.Transaction, w Window, today time.Time) (current, previous []model.Transaction) {
	if w.All {
		return append([]model.Transaction(nil), list...), nil
	}

	today = model.DateOf(today)
	currentStart := today.AddDate(0, 0, -w.Days)
	previousStart := today.AddDate(0, 0, -2*w.Days)

	for _, t := range list {
		switch {
		case !t.Date.Before(currentStart):
			current = append(current, t)
		case !t.Date.Before(previousStart):
			previous = append(previous, t)
		}
	}
	return current, previous
}
