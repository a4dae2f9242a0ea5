package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome represents money received.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "expense"
)

// DefaultPaymentMethod is used when a transaction has no payment method.
const DefaultPaymentMethod = "cash"

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType parses a case-insensitive type name.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrInvalidTransaction, s)
	}
	return t, nil
}

// Transaction is a single income or expense entry in the ledger.
type Transaction struct {
	Date          time.Time
	CreatedAt     time.Time
	Amount        decimal.Decimal
	ID            string
	Type          TransactionType
	Description   string
	Category      string
	PaymentMethod string
}

// Normalize trims free-text fields and fills defaults. It never fails;
// call Validate afterwards.
func (t *Transaction) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	t.PaymentMethod = strings.TrimSpace(t.PaymentMethod)
	if t.Type == "" {
		t.Type = TypeExpense
	}
	if t.PaymentMethod == "" {
		t.PaymentMethod = DefaultPaymentMethod
	}
	if !t.Date.IsZero() {
		t.Date = DateOf(t.Date)
	}
}

// Validate checks the invariants every stored transaction must satisfy.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense, got %q", ErrInvalidTransaction, t.Type)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidTransaction, t.Amount)
	}
	return nil
}

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool { return t.Type == TypeIncome }

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool { return t.Type == TypeExpense }

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}
