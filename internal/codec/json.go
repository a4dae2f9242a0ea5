// Package codec converts ledger records to and from their file formats:
// JSON for persistence and import/export, CSV and XLSX for spreadsheets.
//
// Decoding is the only way external data enters the ledger, so every decoder
// returns fully validated model values or an error wrapping
// common.ErrSerialization.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// flexID accepts both string and numeric identifiers. Older exports used
// millisecond timestamps with a random fraction as ids.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		*id = flexID(n.String())
	}
	return nil
}

type transactionRecord struct {
	ID            flexID      `json:"id"`
	Type          string      `json:"type"`
	Date          string      `json:"date"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Amount        json.Number `json:"amount"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	CreatedAt     string      `json:"createdAt,omitempty"`
	Timestamp     string      `json:"timestamp,omitempty"`
}

type budgetRecord struct {
	ID        flexID      `json:"id"`
	Category  string      `json:"category"`
	Amount    json.Number `json:"amount"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

// ParseAmount parses a positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", s)
	}
	return d, nil
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

func (r transactionRecord) toModel() (model.Transaction, error) {
	t := model.Transaction{
		ID:            string(r.ID),
		Description:   r.Description,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
	}

	if strings.TrimSpace(r.Type) != "" {
		typ, err := model.ParseTransactionType(r.Type)
		if err != nil {
			return t, err
		}
		t.Type = typ
	}

	date, err := model.ParseDate(r.Date)
	if err != nil {
		return t, err
	}
	t.Date = date

	amount, err := ParseAmount(r.Amount.String())
	if err != nil {
		return t, err
	}
	t.Amount = amount

	t.CreatedAt = parseTimestamp(r.CreatedAt)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = parseTimestamp(r.Timestamp)
	}

	t.Normalize()
	return t, t.Validate()
}

func fromTransaction(t model.Transaction) transactionRecord {
	r := transactionRecord{
		ID:            flexID(t.ID),
		Type:          string(t.Type),
		Date:          model.FormatDate(t.Date),
		Description:   t.Description,
		Category:      t.Category,
		Amount:        json.Number(t.Amount.String()),
		PaymentMethod: t.PaymentMethod,
	}
	if !t.CreatedAt.IsZero() {
		r.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return r
}

func (r budgetRecord) toModel() (model.Budget, error) {
	b := model.Budget{
		ID:        string(r.ID),
		Category:  strings.TrimSpace(r.Category),
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
	amount, err := ParseAmount(r.Amount.String())
	if err != nil {
		return b, err
	}
	b.Amount = amount
	return b, b.Validate()
}

func fromBudget(b model.Budget) budgetRecord {
	r := budgetRecord{
		ID:       flexID(b.ID),
		Category: b.Category,
		Amount:   json.Number(b.Amount.String()),
	}
	if !b.CreatedAt.IsZero() {
		r.CreatedAt = b.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return r
}

// decodeArray unmarshals data into a slice of records, distinguishing
// "not an array" from "bad record".
func decodeArray[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: invalid data format: expected a JSON array", common.ErrSerialization)
	}
	var records []T
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSerialization, err)
	}
	return records, nil
}

// DecodeTransactionsJSON parses a JSON array of transactions. Any invalid
// record rejects the whole document.
func DecodeTransactionsJSON(data []byte) ([]model.Transaction, error) {
	records, err := decodeArray[transactionRecord](data)
	if err != nil {
		return nil, err
	}

	transactions := make([]model.Transaction, 0, len(records))
	for i, r := range records {
		t, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %w", common.ErrSerialization, i+1, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// EncodeTransactionsJSON renders transactions as a pretty-printed JSON array.
func EncodeTransactionsJSON(transactions []model.Transaction) ([]byte, error) {
	records := make([]transactionRecord, len(transactions))
	for i, t := range transactions {
		records[i] = fromTransaction(t)
	}
	return json.MarshalIndent(records, "", "  ")
}

// DecodeBudgetsJSON parses a JSON array of budgets.
func DecodeBudgetsJSON(data []byte) ([]model.Budget, error) {
	records, err := decodeArray[budgetRecord](data)
	if err != nil {
		return nil, err
	}

	budgets := make([]model.Budget, 0, len(records))
	for i, r := range records {
		b, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: budget %d: %w", common.ErrSerialization, i+1, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// EncodeBudgetsJSON renders budgets as a pretty-printed JSON array.
func EncodeBudgetsJSON(budgets []model.Budget) ([]byte, error) {
	records := make([]budgetRecord, len(budgets))
	for i, b := range budgets {
		records[i] = fromBudget(b)
	}
	return json.MarshalIndent(records, "", "  ")
}

// DecodeSettingsJSON merges the saved settings over defaults. Keys missing
// from data keep their default values. An unsupported currency is reset to
// the default currency and reported.
func DecodeSettingsJSON(data []byte, defaults model.Settings) (model.Settings, error) {
	settings := defaults
	if err := json.Unmarshal(data, &settings); err != nil {
		return defaults, fmt.Errorf("%w: settings: %w", common.ErrSerialization, err)
	}

	code, err := model.NormalizeCurrency(settings.Currency)
	if err != nil {
		settings.Currency = defaults.Currency
		return settings, fmt.Errorf("%w: settings: %w", common.ErrSerialization, err)
	}
	settings.Currency = code

	if settings.Theme != model.ThemeLight && settings.Theme != model.ThemeDark {
		settings.Theme = defaults.Theme
	}
	return settings, nil
}

// EncodeSettingsJSON renders settings as JSON.
func EncodeSettingsJSON(settings model.Settings) ([]byte, error) {
	return json.Marshal(settings)
}
