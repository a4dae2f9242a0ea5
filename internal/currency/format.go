package currency

import (
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	model.USD: "$",
	model.EUR: "€",
	model.GBP: "£",
	model.JPY: "¥",
	model.CAD: "C$",
	model.AUD: "A$",
}

// Symbol returns the display symbol for code, or code itself.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code + " "
}

// Places is the number of decimals amounts in code are shown with.
func Places(code string) int32 {
	if code == model.JPY {
		return 0
	}
	return 2
}

// Format renders amount with the symbol and fixed decimals of code.
// Negative amounts get a leading minus before the symbol.
func Format(amount decimal.Decimal, code string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + Symbol(code) + amount.StringFixed(Places(code))
}
