package rates

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Crypto currencies are unknown to go-money; register them with enough
// fractional digits for typical holdings.
func init() {
	money.AddCurrency("BTC", "₿", "1 $", ".", ",", 8)
	money.AddCurrency("ETH", "Ξ", "1 $", ".", ",", 8)
	money.AddCurrency("SOL", "◎", "1 $", ".", ",", 6)
}

// Format renders amount in the conventions of code, rounded to the
// currency's minor unit. Codes go-money does not know get two decimals and
// the code as suffix.
func Format(amount decimal.Decimal, code string) string {
	cur := *money.New(0, code).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatRate prints a rate with up to eight decimals and no trailing zeros.
func FormatRate(rate decimal.Decimal) string {
	return rate.Round(8).String()
}
