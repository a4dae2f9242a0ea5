package currency

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// sampleAmount is the amount shown in a conversion preview.
var sampleAmount = decimal.NewFromInt(100)

// Ledger is the part of the store a conversion rewrites.
type Ledger interface {
	Settings() model.Settings
	RewriteAmounts(ctx context.Context, code string, fn func(decimal.Decimal) decimal.Decimal) error
}

// Preview describes a pending conversion for confirmation.
type Preview struct {
	From   string
	To     string
	Rate   decimal.Decimal
	Sample decimal.Decimal // sampleAmount expressed in To
}

// String renders the preview the way it is shown to the user.
func (p Preview) String() string {
	return fmt.Sprintf("%s = %s (rate %s)",
		Format(sampleAmount, p.From), Format(p.Sample, p.To), p.Rate.StringFixed(4))
}

// Converter re-denominates a ledger.
type Converter struct {
	ledger Ledger
	table  Table
}

// NewConverter creates a converter using table for rates.
func NewConverter(ledger Ledger, table Table) *Converter {
	return &Converter{ledger: ledger, table: table}
}

// Preview computes the rate and sample for converting from into to.
func (c *Converter) Preview(from, to string) (Preview, error) {
	rate, err := c.table.Rate(from, to)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		From:   from,
		To:     to,
		Rate:   rate,
		Sample: Round(sampleAmount, rate),
	}, nil
}

// Convert switches the ledger from its current currency to to. confirm is
// asked with a preview first; when it declines, ErrConversionCancelled is
// returned and the ledger is untouched. Every amount is rounded to two
// places on its own, so converting back and forth can drift by a cent.
func (c *Converter) Convert(ctx context.Context, to string, confirm func(Preview) bool) (Preview, error) {
	from := c.ledger.Settings().Currency
	to, err := model.NormalizeCurrency(to)
	if err != nil {
		return Preview{}, err
	}
	if from == to {
		return Preview{From: from, To: to, Rate: decimal.NewFromInt(1), Sample: sampleAmount}, nil
	}

	p, err := c.Preview(from, to)
	if err != nil {
		return Preview{}, err
	}
	if confirm != nil && !confirm(p) {
		return p, common.ErrConversionCancelled
	}

	if err := c.ledger.RewriteAmounts(ctx, to, func(amount decimal.Decimal) decimal.Decimal {
		return Round(amount, p.Rate)
	}); err != nil {
		if errors.Is(err, common.ErrValidation) {
			return p, common.NewUserError("Conversion would round an amount to zero", err)
		}
		return p, err
	}

	common.LogInfo("Converted ledger currency", common.Fields{
		"from": from,
		"to":   to,
		"rate": p.Rate.String(),
	})
	return p, nil
}

// Round converts amount at rate and rounds to two places.
func Round(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// Table returns the rates in use.
func (c *Converter) Table() Table {
	return c.table
}

// SetTable replaces the rates used by later conversions.
func (c *Converter) SetTable(t Table) {
	c.table = t
}
