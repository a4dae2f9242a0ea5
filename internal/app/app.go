// Package app wires the ledger, the query engine, the metrics and the alert
// policy into one application state driven from a single event loop.
//
// Every mutation goes through App so the derived view is recomputed in the
// same call: the visible page never refers to a transaction that has been
// deleted.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Veraticus/expense-tracker/internal/alerts"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/currency"
	"github.com/Veraticus/expense-tracker/internal/ledger"
	"github.com/Veraticus/expense-tracker/internal/metrics"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/query"
	"github.com/shopspring/decimal"
)

// DefaultSummaryDelay is how long after start-up the monthly summary is
// shown.
const DefaultSummaryDelay = time.Second

// RecentCount is the number of transactions in the recent list.
const RecentCount = 5

// Options configures an App.
type Options struct {
	// KV persists the ledger and the application records. Nil keeps
	// everything in memory.
	KV        KV
	Notifier  Notifier
	Scheduler Scheduler
	// Now defaults to time.Now.
	Now          func() time.Time
	SummaryDelay time.Duration
}

// View is the filtered and paginated transaction list.
type View struct {
	Filtered  []model.Transaction
	Page      []model.Transaction
	PageNum   int
	PageCount int
}

type viewKey struct {
	version uint64
	filter  query.Filter
}

// App is the application state.
type App struct {
	store     *ledger.Store
	kv        KV
	converter *currency.Converter
	policy    *alerts.Policy
	gate      alerts.SummaryGate
	notifier  Notifier
	scheduler Scheduler
	now       func() time.Time
	delay     time.Duration

	refreshing guard
	filter     query.Filter
	page       int
	view       View
	viewKey    *viewKey
	dashboard  metrics.Dashboard
	statuses   []metrics.BudgetStatus
}

// New creates an App with an empty ledger. Call Open to load saved data.
func New(opts Options) *App {
	a := &App{
		kv:        opts.KV,
		policy:    alerts.NewPolicy(),
		notifier:  opts.Notifier,
		scheduler: opts.Scheduler,
		now:       opts.Now,
		delay:     opts.SummaryDelay,
		filter:    query.DefaultFilter(),
		page:      1,
	}
	if a.notifier == nil {
		a.notifier = discardNotifier{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.delay <= 0 {
		a.delay = DefaultSummaryDelay
	}

	var kv ledger.KV
	if opts.KV != nil {
		kv = opts.KV
	}
	a.store = ledger.New(ledger.Options{
		KV:  kv,
		Now: a.now,
		OnSaveError: func(error) {
			a.notifier.Notify(LevelError, "Failed to save data")
		},
	})
	a.converter = currency.NewConverter(a.store, currency.DefaultTable())
	return a
}

// Open loads the ledger, the rates and the alert state, refreshes the
// view and schedules the monthly summary when it is due. Corrupt records
// are reset to their defaults and reported; the application stays usable.
func (a *App) Open(ctx context.Context) error {
	var errs []error
	if err := a.store.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.kv != nil {
		table, err := currency.LoadTable(ctx, a.kv)
		a.converter.SetTable(table)
		if err != nil {
			errs = append(errs, err)
		}
		if err := a.policy.Load(ctx, a.kv); err != nil {
			errs = append(errs, err)
		}
		if err := a.gate.Load(ctx, a.kv); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if errors.Is(err, common.ErrSerialization) {
		a.notifier.Notify(LevelWarning, "Some saved data could not be read and was reset")
	} else if err != nil {
		a.notifier.Notify(LevelError, "Failed to load saved data")
	}

	a.Refresh(ctx)
	a.scheduleMonthlySummary(ctx)
	return err
}

// Store returns the underlying ledger for read access.
func (a *App) Store() *ledger.Store {
	return a.store
}

// Settings returns the current settings.
func (a *App) Settings() model.Settings {
	return a.store.Settings()
}

// Rates returns the currency table in use.
func (a *App) Rates() currency.Table {
	return a.converter.Table()
}

// Filter returns the active filter.
func (a *App) Filter() query.Filter {
	return a.filter
}

// View returns the current page of the filtered list.
func (a *App) View() View {
	return a.view
}

// Dashboard returns the totals for the filter's window.
func (a *App) Dashboard() metrics.Dashboard {
	return a.dashboard
}

// Statuses returns the budget statuses for the current month.
func (a *App) Statuses() []metrics.BudgetStatus {
	return a.statuses
}

// Recent returns the most recently added transactions.
func (a *App) Recent() []model.Transaction {
	return query.Recent(a.store.Transactions(), RecentCount)
}

// Health scores the transactions in period against this month's budgets.
func (a *App) Health(period query.Period) metrics.Health {
	list := query.Since(a.store.Transactions(), period, a.now())
	return metrics.FinancialHealth(list, a.statuses)
}

// Format renders amount in the ledger currency.
func (a *App) Format(amount decimal.Decimal) string {
	return currency.Format(amount, a.store.Settings().Currency)
}

// SetFilter replaces the filter and returns to the first page.
func (a *App) SetFilter(ctx context.Context, f query.Filter) {
	a.filter = f
	a.page = 1
	a.Refresh(ctx)
}

// ChangePage moves delta pages. It reports false and stays put when the
// target page is out of range.
func (a *App) ChangePage(ctx context.Context, delta int) bool {
	target := a.page + delta
	if target < 1 || target > a.view.PageCount {
		return false
	}
	a.page = target
	a.Refresh(ctx)
	return true
}

// Refresh recomputes the view, the dashboard and the budget statuses and
// raises any due budget alerts. A call made while a refresh is already
// running returns immediately.
func (a *App) Refresh(ctx context.Context) {
	release, ok := a.refreshing.Enter()
	if !ok {
		return
	}
	defer release()

	list := a.store.Transactions()
	today := a.now()

	key := viewKey{version: a.store.Version(), filter: a.filter}
	if a.viewKey == nil || *a.viewKey != key {
		a.view.Filtered = query.Apply(list, a.filter)
		a.viewKey = &key
	}
	a.view.PageCount = query.PageCount(len(a.view.Filtered))
	a.page = query.ClampPage(a.page, len(a.view.Filtered))
	a.view.PageNum = a.page
	a.view.Page = query.Paginate(a.view.Filtered, a.page)

	a.dashboard = metrics.BuildDashboard(list, a.filter.Window, today)
	a.statuses = metrics.Statuses(a.store.Budgets(), list, today)

	if a.store.Settings().BudgetAlerts {
		a.raiseAlerts(ctx, today)
	}
}

func (a *App) raiseAlerts(ctx context.Context, today time.Time) {
	fired := a.policy.Evaluate(a.statuses, today)
	if len(fired) == 0 {
		return
	}
	code := a.store.Settings().Currency
	for _, alert := range fired {
		level := LevelWarning
		if alert.Kind == alerts.KindOver {
			level = LevelError
		}
		a.notifier.Notify(level, alert.Message(code))
	}
	if a.kv != nil {
		if err := a.policy.Save(ctx, a.kv); err != nil {
			common.LogError(err, "Failed to save alert state", nil)
		}
	}
}

func (a *App) scheduleMonthlySummary(ctx context.Context) {
	if a.scheduler == nil || !a.gate.Due(a.store.Settings().MonthlySummary, a.now()) {
		return
	}
	a.scheduler.After(a.delay, func() {
		today := a.now()
		if !a.gate.Due(a.store.Settings().MonthlySummary, today) {
			return
		}
		summary := alerts.PreviousMonth(a.store.Transactions(), today)
		a.notifier.Notify(LevelInfo, summary.Message(a.store.Settings().Currency))
		a.gate.Mark(today)
		if a.kv != nil {
			if err := a.gate.Save(ctx, a.kv); err != nil {
				common.LogError(err, "Failed to save summary marker", nil)
			}
		}
	})
}

// AddTransaction records t.
func (a *App) AddTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	added, err := a.store.AddTransaction(ctx, t)
	if err != nil {
		return model.Transaction{}, err
	}
	a.Refresh(ctx)
	a.notifier.Notify(LevelSuccess, "Transaction added")
	return added, nil
}

// DeleteTransaction removes the transaction with id. A missing id is
// reported as an info message, not an error.
func (a *App) DeleteTransaction(ctx context.Context, id string) error {
	if err := a.store.DeleteTransaction(ctx, id); err != nil {
		if common.IsNotFound(err) {
			a.notifier.Notify(LevelInfo, fmt.Sprintf("No transaction with id %s", id))
			return nil
		}
		return err
	}
	a.Refresh(ctx)
	a.notifier.Notify(LevelSuccess, "Transaction deleted")
	return nil
}

// UpsertBudget sets the monthly budget for category.
func (a *App) UpsertBudget(ctx context.Context, category string, amount decimal.Decimal) error {
	created, err := a.store.UpsertBudget(ctx, category, amount)
	if err != nil {
		return err
	}
	a.Refresh(ctx)
	if created {
		a.notifier.Notify(LevelSuccess, "Budget added")
	} else {
		a.notifier.Notify(LevelSuccess, "Budget updated")
	}
	return nil
}

// DeleteBudget removes the budget for category.
func (a *App) DeleteBudget(ctx context.Context, category string) error {
	if err := a.store.DeleteBudget(ctx, category); err != nil {
		if common.IsNotFound(err) {
			a.notifier.Notify(LevelInfo, fmt.Sprintf("No budget for %s", category))
			return nil
		}
		return err
	}
	a.Refresh(ctx)
	a.notifier.Notify(LevelSuccess, "Budget deleted")
	return nil
}

// ConvertCurrency re-denominates the ledger into to after confirm accepts
// the preview.
func (a *App) ConvertCurrency(ctx context.Context, to string, confirm func(currency.Preview) bool) error {
	from := a.store.Settings().Currency
	p, err := a.converter.Convert(ctx, to, confirm)
	if errors.Is(err, common.ErrConversionCancelled) {
		a.notifier.Notify(LevelInfo, "Currency conversion cancelled")
		return err
	}
	if err != nil {
		return err
	}
	a.Refresh(ctx)
	if p.From != p.To {
		a.notifier.Notify(LevelSuccess, fmt.Sprintf("Converted %s to %s at %s", from, p.To, p.Rate.StringFixed(4)))
	}
	return nil
}

// RefreshRates simulates a rate update and saves the new table.
func (a *App) RefreshRates(ctx context.Context, rng *rand.Rand) (currency.Table, error) {
	table := a.converter.Table().Refresh(rng, a.now())
	a.converter.SetTable(table)
	if a.kv != nil {
		if err := currency.SaveTable(ctx, a.kv, table); err != nil {
			return table, err
		}
	}
	a.notifier.Notify(LevelSuccess, "Exchange rates updated")
	return table, nil
}

// ImportTransactions adds every transaction in list, or none of them.
func (a *App) ImportTransactions(ctx context.Context, list []model.Transaction) (int, error) {
	n, err := a.store.ImportTransactions(ctx, list)
	if err != nil {
		return 0, err
	}
	a.Refresh(ctx)
	a.notifier.Notify(LevelSuccess, fmt.Sprintf("Imported %d transactions", n))
	return n, nil
}

// ImportBudgets upserts every budget in list.
func (a *App) ImportBudgets(ctx context.Context, list []model.Budget) (created, updated int, err error) {
	created, updated, err = a.store.ImportBudgets(ctx, list)
	if err != nil {
		return 0, 0, err
	}
	a.Refresh(ctx)
	a.notifier.Notify(LevelSuccess, fmt.Sprintf("Imported %d budgets (%d new, %d updated)", created+updated, created, updated))
	return created, updated, nil
}

// Clear deletes every transaction and budget.
func (a *App) Clear(ctx context.Context) error {
	err := a.store.Clear(ctx)
	a.Refresh(ctx)
	if err != nil {
		return err
	}
	a.notifier.Notify(LevelSuccess, "All data cleared")
	return nil
}

// Save writes the ledger regardless of the auto-save setting.
func (a *App) Save(ctx context.Context) error {
	if err := a.store.Save(ctx); err != nil {
		return err
	}
	a.notifier.Notify(LevelSuccess, "Data saved")
	return nil
}

// SetAutoSave turns automatic persistence on or off.
func (a *App) SetAutoSave(ctx context.Context, on bool) {
	a.store.SetAutoSave(ctx, on)
	a.Refresh(ctx)
}

// SetBudgetAlerts turns budget alerts on or off.
func (a *App) SetBudgetAlerts(ctx context.Context, on bool) {
	a.store.SetBudgetAlerts(ctx, on)
	a.Refresh(ctx)
}

// SetMonthlySummary turns the monthly summary on or off.
func (a *App) SetMonthlySummary(ctx context.Context, on bool) {
	a.store.SetMonthlySummary(ctx, on)
	a.Refresh(ctx)
}

// SetTheme changes the display theme.
func (a *App) SetTheme(ctx context.Context, theme model.Theme) error {
	if err := a.store.SetTheme(ctx, theme); err != nil {
		return err
	}
	a.Refresh(ctx)
	return nil
}
