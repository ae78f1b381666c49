package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when Options do not name one.
const DefaultCurrency = "USD"

// formatMoney formats an amount in a currency, rounded to the currency
// fraction, e.g. "$1,234.57" or "-€12,00".
func formatMoney(value decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, currency).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
