// Package model defines the ledger records: transactions, budgets and settings.
package model

import (
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/common"
)

// Record validation errors. All of them match common.ErrValidation.
var (
	ErrInvalidTransaction  = fmt.Errorf("%w: invalid transaction", common.ErrValidation)
	ErrInvalidBudget       = fmt.Errorf("%w: invalid budget", common.ErrValidation)
	ErrUnsupportedCurrency = fmt.Errorf("%w: %w", common.ErrValidation, common.ErrUnsupportedCurrency)
)
