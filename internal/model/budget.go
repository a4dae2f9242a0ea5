package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the monthly spending cap for one category.
type Budget struct {
	CreatedAt time.Time
	Amount    decimal.Decimal
	ID        string
	Category  string
}

// Validate checks the budget invariants.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidBudget, b.Amount)
	}
	return nil
}
