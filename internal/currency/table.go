// Package currency converts ledger amounts between the supported
// currencies using a table of units per US dollar.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/ledger"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// refreshJitter bounds how far Refresh moves a rate, as a fraction.
const refreshJitter = 0.02

// Table holds how many units of each currency buy one US dollar.
type Table struct {
	UpdatedAt time.Time                  `json:"updatedAt"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// DefaultTable returns the built-in rates.
func DefaultTable() Table {
	return Table{
		Rates: map[string]decimal.Decimal{
			model.USD: decimal.NewFromInt(1),
			model.EUR: decimal.RequireFromString("0.85"),
			model.GBP: decimal.RequireFromString("0.73"),
			model.JPY: decimal.NewFromInt(110),
			model.CAD: decimal.RequireFromString("1.25"),
			model.AUD: decimal.RequireFromString("1.35"),
		},
	}
}

// Rate returns the multiplier that turns an amount in from into to.
func (t Table) Rate(from, to string) (decimal.Decimal, error) {
	f, err := t.lookup(from)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := t.lookup(to)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(f), nil
}

func (t Table) lookup(code string) (decimal.Decimal, error) {
	r, ok := t.Rates[code]
	if !ok || !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrUnsupportedCurrency, code)
	}
	return r, nil
}

// Refresh returns a copy of t with every non-USD rate moved by up to 2% in
// either direction and rounded to four places. It simulates a rate feed.
func (t Table) Refresh(rng *rand.Rand, now time.Time) Table {
	out := Table{UpdatedAt: now, Rates: make(map[string]decimal.Decimal, len(t.Rates))}
	for _, code := range model.SupportedCurrencies {
		r, ok := t.Rates[code]
		if !ok {
			continue
		}
		if code == model.USD {
			out.Rates[code] = r
			continue
		}
		factor := decimal.NewFromFloat(1 + (rng.Float64()*2-1)*refreshJitter)
		out.Rates[code] = r.Mul(factor).Round(4)
	}
	return out
}

// MarshalTable encodes t for the rates record.
func MarshalTable(t Table) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: rates: %w", common.ErrSerialization, err)
	}
	return data, nil
}

// UnmarshalTable decodes a rates record. Currencies missing from data keep
// their default rate.
func UnmarshalTable(data []byte) (Table, error) {
	var stored Table
	if err := json.Unmarshal(data, &stored); err != nil {
		return DefaultTable(), fmt.Errorf("%w: rates: %w", common.ErrSerialization, err)
	}
	t := DefaultTable()
	t.UpdatedAt = stored.UpdatedAt
	for _, code := range model.SupportedCurrencies {
		if r, ok := stored.Rates[code]; ok && r.IsPositive() {
			t.Rates[code] = r
		}
	}
	return t, nil
}

// Store is where the rates record lives.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// LoadTable reads the rates record from kv. A missing record yields the
// default table; a corrupt one yields the default table and an error.
func LoadTable(ctx context.Context, kv Store) (Table, error) {
	data, err := kv.Get(ctx, ledger.KeyRates)
	if errors.Is(err, common.ErrNotFound) {
		return DefaultTable(), nil
	}
	if err != nil {
		return DefaultTable(), fmt.Errorf("failed to read rates: %w", err)
	}
	return UnmarshalTable(data)
}

// SaveTable writes t to kv.
func SaveTable(ctx context.Context, kv Store, t Table) error {
	data, err := MarshalTable(t)
	if err != nil {
		return err
	}
	if err := kv.Put(ctx, ledger.KeyRates, data); err != nil {
		return fmt.Errorf("failed to save rates: %w", err)
	}
	return nil
}
