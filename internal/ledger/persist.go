package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/codec"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// Persisted record keys.
const (
	KeyTransactions   = "ledger.transactions"
	KeyBudgets        = "ledger.budgets"
	KeySettings       = "ledger.settings"
	KeyRates          = "ledger.rates"
	KeyAlerts         = "ledger.alerts"
	KeyMonthlySummary = "ledger.monthly_summary"
)

// KV is the key-value store records are persisted into. Get returns an
// error wrapping common.ErrNotFound for missing keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes all values or none.
	PutMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

type saveScope uint8

const (
	saveTransactions saveScope = 1 << iota
	saveBudgets
	saveSettings

	saveAll = saveTransactions | saveBudgets | saveSettings
)

// persist writes the records in scope when auto-save is on. Failures are
// reported, never returned: the in-memory mutation has already happened.
func (s *Store) persist(ctx context.Context, scope saveScope) {
	if !s.settings.AutoSave {
		return
	}
	if err := s.write(ctx, scope); err != nil {
		s.reportSaveError(err)
	}
}

// Save writes every record regardless of the auto-save setting.
func (s *Store) Save(ctx context.Context) error {
	if err := s.write(ctx, saveAll); err != nil {
		s.reportSaveError(err)
		return err
	}
	return nil
}

// write stores the records in scope in a single batch, so a failure never
// leaves the ledger half written.
func (s *Store) write(ctx context.Context, scope saveScope) error {
	if s.kv == nil {
		return nil
	}

	values := make(map[string][]byte, 3)
	var errs []error
	if scope&saveTransactions != 0 {
		errs = append(errs, encode(values, KeyTransactions, func() ([]byte, error) {
			return codec.EncodeTransactionsJSON(s.transactions)
		}))
	}
	if scope&saveBudgets != 0 {
		errs = append(errs, encode(values, KeyBudgets, func() ([]byte, error) {
			return codec.EncodeBudgetsJSON(s.budgets)
		}))
	}
	if scope&saveSettings != 0 {
		errs = append(errs, encode(values, KeySettings, func() ([]byte, error) {
			return codec.EncodeSettingsJSON(s.settings)
		}))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := s.kv.PutMany(ctx, values); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func encode(values map[string][]byte, key string, fn func() ([]byte, error)) error {
	data, err := fn()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	values[key] = data
	return nil
}

func (s *Store) reportSaveError(err error) {
	common.LogError(err, "Failed to save ledger", nil)
	if s.onSaveError != nil {
		s.onSaveError(err)
	}
}

// Load replaces the in-memory state with the persisted records. Each record
// is read independently: a missing record leaves its default in place, and
// a corrupt one falls back to its default and is included in the returned
// error, which wraps common.ErrSerialization. The store is usable either
// way.
func (s *Store) Load(ctx context.Context) error {
	s.transactions = nil
	s.budgets = nil
	s.settings = model.DefaultSettings()

	if s.kv == nil {
		return nil
	}

	var errs []error

	if data, ok, err := s.get(ctx, KeyTransactions); err != nil {
		errs = append(errs, err)
	} else if ok {
		transactions, err := codec.DecodeTransactionsJSON(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyTransactions, err))
		} else {
			s.transactions = dedupeIDs(transactions)
		}
	}

	if data, ok, err := s.get(ctx, KeyBudgets); err != nil {
		errs = append(errs, err)
	} else if ok {
		budgets, err := codec.DecodeBudgetsJSON(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeyBudgets, err))
		} else {
			for _, b := range budgets {
				s.upsertBudget(b)
			}
		}
	}

	if data, ok, err := s.get(ctx, KeySettings); err != nil {
		errs = append(errs, err)
	} else if ok {
		settings, err := codec.DecodeSettingsJSON(data, model.DefaultSettings())
		s.settings = settings
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", KeySettings, err))
		}
	}

	s.version++
	s.notify()

	if err := errors.Join(errs...); err != nil {
		common.LogError(err, "Failed to load ledger records", common.Fields{"records": len(errs)})
		return err
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// dedupeIDs gives records with a blank or repeated id a fresh one so ids
// stay unique after hand-edited or legacy data is loaded.
func dedupeIDs(transactions []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(transactions))
	for i := range transactions {
		if transactions[i].ID == "" || seen[transactions[i].ID] {
			transactions[i].ID = model.NewID()
		}
		seen[transactions[i].ID] = true
	}
	return transactions
}
