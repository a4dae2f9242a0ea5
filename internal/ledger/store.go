// Package ledger owns the transaction list, the budgets and the settings.
//
// Store is the single source of truth. Every successful mutation bumps the
// store version, notifies change listeners and, when auto-save is enabled,
// writes the affected records to the key-value store. Store is not safe for
// concurrent use; callers drive it from one event loop.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Options configures a Store.
type Options struct {
	// KV persists records. Nil keeps the ledger in memory only.
	KV KV
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// OnSaveError is called when persisting fails. The mutation that
	// triggered the save has still been applied.
	OnSaveError func(error)
}

// Store holds the ledger state.
type Store struct {
	kv          KV
	now         func() time.Time
	onSaveError func(error)
	listeners   []func()

	transactions []model.Transaction
	budgets      []model.Budget
	settings     model.Settings
	version      uint64
}

// New creates an empty store with default settings.
func New(opts Options) *Store {
	s := &Store{
		kv:          opts.KV,
		now:         opts.Now,
		onSaveError: opts.OnSaveError,
		settings:    model.DefaultSettings(),
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// OnChange registers fn to run after every successful mutation.
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// Version increases with every mutation. Derived views compare it to
// decide whether they are stale.
func (s *Store) Version() uint64 {
	return s.version
}

// Transactions returns a copy of all transactions in insertion order.
func (s *Store) Transactions() []model.Transaction {
	return slices.Clone(s.transactions)
}

// Transaction returns the transaction with the given id.
func (s *Store) Transaction(id string) (model.Transaction, bool) {
	i := s.indexOfTransaction(id)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.transactions[i], true
}

// Budgets returns a copy of all budgets in creation order.
func (s *Store) Budgets() []model.Budget {
	return slices.Clone(s.budgets)
}

// Budget returns the budget for category.
func (s *Store) Budget(category string) (model.Budget, bool) {
	i := s.indexOfBudget(category)
	if i < 0 {
		return model.Budget{}, false
	}
	return s.budgets[i], true
}

// Settings returns the current settings.
func (s *Store) Settings() model.Settings {
	return s.settings
}

// AddTransaction validates t, assigns its id and creation time, and appends
// it to the ledger.
func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}

	t.ID = s.freshID()
	t.CreatedAt = s.now().UTC()
	s.transactions = append(s.transactions, t)

	s.changed(ctx, saveTransactions)
	return t, nil
}

// DeleteTransaction removes the transaction with the given id. A missing
// id returns common.ErrNotFound and leaves the ledger untouched.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	i := s.indexOfTransaction(id)
	if i < 0 {
		return fmt.Errorf("%w: transaction %q", common.ErrNotFound, id)
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)

	s.changed(ctx, saveTransactions)
	return nil
}

// UpsertBudget sets the monthly budget for category. It reports whether a
// new budget was created rather than an existing one updated.
func (s *Store) UpsertBudget(ctx context.Context, category string, amount decimal.Decimal) (bool, error) {
	b := model.Budget{Category: strings.TrimSpace(category), Amount: amount}
	if err := b.Validate(); err != nil {
		return false, err
	}

	created := s.upsertBudget(b)
	s.changed(ctx, saveBudgets)
	return created, nil
}

func (s *Store) upsertBudget(b model.Budget) bool {
	if i := s.indexOfBudget(b.Category); i >= 0 {
		s.budgets[i].Amount = b.Amount
		return false
	}
	if b.ID == "" || s.budgetIDTaken(b.ID) {
		b.ID = model.NewID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
	s.budgets = append(s.budgets, b)
	return true
}

// DeleteBudget removes the budget for category.
func (s *Store) DeleteBudget(ctx context.Context, category string) error {
	i := s.indexOfBudget(strings.TrimSpace(category))
	if i < 0 {
		return fmt.Errorf("%w: budget %q", common.ErrNotFound, category)
	}
	s.budgets = slices.Delete(s.budgets, i, i+1)

	s.changed(ctx, saveBudgets)
	return nil
}

// SetCurrency changes the currency label without touching amounts. Use the
// currency converter to re-denominate existing records.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	normalized, err := model.NormalizeCurrency(code)
	if err != nil {
		return err
	}
	s.settings.Currency = normalized
	s.changed(ctx, saveSettings)
	return nil
}

// SetAutoSave toggles automatic persistence. The setting itself is always
// written; turning auto-save on also writes the rest of the ledger.
func (s *Store) SetAutoSave(ctx context.Context, on bool) {
	s.settings.AutoSave = on
	s.version++
	s.notify()

	scope := saveSettings
	if on {
		scope = saveAll
	}
	if err := s.write(ctx, scope); err != nil {
		s.reportSaveError(err)
	}
}

// SetBudgetAlerts toggles budget alerts.
func (s *Store) SetBudgetAlerts(ctx context.Context, on bool) {
	s.settings.BudgetAlerts = on
	s.changed(ctx, saveSettings)
}

// SetMonthlySummary toggles the monthly summary notification.
func (s *Store) SetMonthlySummary(ctx context.Context, on bool) {
	s.settings.MonthlySummary = on
	s.changed(ctx, saveSettings)
}

// SetTheme changes the display theme.
func (s *Store) SetTheme(ctx context.Context, theme model.Theme) error {
	if theme != model.ThemeLight && theme != model.ThemeDark {
		return fmt.Errorf("%w: unknown theme %q", common.ErrValidation, theme)
	}
	s.settings.Theme = theme
	s.changed(ctx, saveSettings)
	return nil
}

// ImportTransactions appends already-parsed transactions. Records without
// an id, or whose id is already in use, get a fresh one. If any record is
// invalid nothing is imported.
func (s *Store) ImportTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	incoming := make([]model.Transaction, len(transactions))
	for i, t := range transactions {
		t.Normalize()
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		incoming[i] = t
	}
	if len(incoming) == 0 {
		return 0, nil
	}

	taken := make(map[string]bool, len(s.transactions)+len(incoming))
	for _, t := range s.transactions {
		taken[t.ID] = true
	}
	now := s.now().UTC()
	for i := range incoming {
		if incoming[i].ID == "" || taken[incoming[i].ID] {
			incoming[i].ID = s.freshID()
		}
		taken[incoming[i].ID] = true
		if incoming[i].CreatedAt.IsZero() {
			incoming[i].CreatedAt = now
		}
	}

	s.transactions = append(s.transactions, incoming...)
	s.changed(ctx, saveTransactions)
	return len(incoming), nil
}

// ImportBudgets upserts each budget by category. If any record is invalid
// nothing is imported.
func (s *Store) ImportBudgets(ctx context.Context, budgets []model.Budget) (created, updated int, err error) {
	for i, b := range budgets {
		b.Category = strings.TrimSpace(b.Category)
		if err := b.Validate(); err != nil {
			return 0, 0, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	if len(budgets) == 0 {
		return 0, 0, nil
	}

	for _, b := range budgets {
		b.Category = strings.TrimSpace(b.Category)
		if s.upsertBudget(b) {
			created++
		} else {
			updated++
		}
	}
	s.changed(ctx, saveBudgets)
	return created, updated, nil
}

// Clear removes every transaction and budget. With auto-save on, their
// persisted records are deleted too; otherwise the next Save writes the
// empty ledger. Settings are kept.
func (s *Store) Clear(ctx context.Context) error {
	s.transactions = nil
	s.budgets = nil
	s.version++
	s.notify()

	if s.kv == nil || !s.settings.AutoSave {
		return nil
	}
	for _, key := range []string{KeyTransactions, KeyBudgets} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.reportSaveError(err)
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

// RewriteAmounts re-denominates the ledger: fn maps every transaction and
// budget amount to its new value and the currency becomes code. Either all
// amounts change or none do.
func (s *Store) RewriteAmounts(ctx context.Context, code string, fn func(decimal.Decimal) decimal.Decimal) error {
	normalized, err := model.NormalizeCurrency(code)
	if err != nil {
		return err
	}

	transactions := slices.Clone(s.transactions)
	for i := range transactions {
		transactions[i].Amount = fn(transactions[i].Amount)
		if !transactions[i].Amount.IsPositive() {
			return fmt.Errorf("%w: transaction %q would become %s %s",
				common.ErrValidation, transactions[i].ID, transactions[i].Amount, normalized)
		}
	}
	budgets := slices.Clone(s.budgets)
	for i := range budgets {
		budgets[i].Amount = fn(budgets[i].Amount)
		if !budgets[i].Amount.IsPositive() {
			return fmt.Errorf("%w: budget %q would become %s %s",
				common.ErrValidation, budgets[i].Category, budgets[i].Amount, normalized)
		}
	}

	s.transactions = transactions
	s.budgets = budgets
	s.settings.Currency = normalized
	s.changed(ctx, saveAll)
	return nil
}

func (s *Store) changed(ctx context.Context, scope saveScope) {
	s.version++
	s.notify()
	s.persist(ctx, scope)
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

func (s *Store) indexOfTransaction(id string) int {
	return slices.IndexFunc(s.transactions, func(t model.Transaction) bool { return t.ID == id })
}

func (s *Store) indexOfBudget(category string) int {
	return slices.IndexFunc(s.budgets, func(b model.Budget) bool { return b.Category == category })
}

func (s *Store) budgetIDTaken(id string) bool {
	return slices.ContainsFunc(s.budgets, func(b model.Budget) bool { return b.ID == id })
}

func (s *Store) freshID() string {
	for {
		id := model.NewID()
		if s.indexOfTransaction(id) < 0 {
			return id
		}
	}
}
