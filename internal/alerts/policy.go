// Package alerts decides which budget alerts to raise and when the monthly
// summary is due. Each alert fires at most once per day.
package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/currency"
	"github.com/Veraticus/expense-tracker/internal/ledger"
	"github.com/Veraticus/expense-tracker/internal/metrics"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// Kind is the severity of a budget alert.
type Kind string

// Alert kinds.
const (
	KindWarning Kind = "warning"
	KindOver    Kind = "over"
)

// Alert is a budget alert to show the user.
type Alert struct {
	ID     string
	Kind   Kind
	Status metrics.BudgetStatus
}

// Message renders the alert in the ledger currency.
func (a Alert) Message(code string) string {
	b := a.Status.Budget
	if a.Kind == KindOver {
		return fmt.Sprintf("Budget exceeded for %s: spent %s of %s",
			b.Category, currency.Format(a.Status.Spent, code), currency.Format(b.Amount, code))
	}
	return fmt.Sprintf("%s budget is %.0f%% used (%s of %s)",
		b.Category, a.Status.Utilization, currency.Format(a.Status.Spent, code), currency.Format(b.Amount, code))
}

// AlertID is the dedupe key for a category and kind.
func AlertID(category string, kind Kind) string {
	return category + "-" + string(kind)
}

// Policy remembers which alerts were raised today.
type Policy struct {
	raised    map[string]bool
	lastReset string
}

// NewPolicy creates a policy with nothing raised.
func NewPolicy() *Policy {
	return &Policy{raised: make(map[string]bool)}
}

// Evaluate returns the alerts to raise for statuses and marks them raised.
// The raised set is cleared when today is a different day from the last
// evaluation.
func (p *Policy) Evaluate(statuses []metrics.BudgetStatus, today time.Time) []Alert {
	day := model.FormatDate(today)
	if day != p.lastReset {
		clear(p.raised)
		p.lastReset = day
	}

	var out []Alert
	for _, s := range statuses {
		var kind Kind
		switch {
		case s.Utilization >= metrics.DangerThreshold:
			kind = KindOver
		case s.Utilization >= metrics.WarningThreshold:
			kind = KindWarning
		default:
			continue
		}
		id := AlertID(s.Budget.Category, kind)
		if p.raised[id] {
			continue
		}
		p.raised[id] = true
		out = append(out, Alert{ID: id, Kind: kind, Status: s})
	}
	return out
}

// Raised reports whether id has fired since the last reset.
func (p *Policy) Raised(id string) bool {
	return p.raised[id]
}

// State is the persisted form of a Policy.
type State struct {
	LastReset string   `json:"lastReset"`
	Raised    []string `json:"raised"`
}

// State snapshots the policy.
func (p *Policy) State() State {
	s := State{LastReset: p.lastReset, Raised: make([]string, 0, len(p.raised))}
	for id := range p.raised {
		s.Raised = append(s.Raised, id)
	}
	slices.Sort(s.Raised)
	return s
}

// Restore replaces the policy with s.
func (p *Policy) Restore(s State) {
	p.raised = make(map[string]bool, len(s.Raised))
	for _, id := range s.Raised {
		p.raised[id] = true
	}
	p.lastReset = s.LastReset
}

// KV is where alert state is kept between runs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Load restores the policy from kv. A missing record leaves it empty; a
// corrupt one leaves it empty and returns an error.
func (p *Policy) Load(ctx context.Context, kv KV) error {
	data, err := kv.Get(ctx, ledger.KeyAlerts)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read alert state: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: alert state: %w", common.ErrSerialization, err)
	}
	p.Restore(s)
	return nil
}

// Save writes the policy to kv.
func (p *Policy) Save(ctx context.Context, kv KV) error {
	data, err := json.Marshal(p.State())
	if err != nil {
		return fmt.Errorf("%w: alert state: %w", common.ErrSerialization, err)
	}
	if err := kv.Put(ctx, ledger.KeyAlerts, data); err != nil {
		return fmt.Errorf("failed to save alert state: %w", err)
	}
	return nil
}
