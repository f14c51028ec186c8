package models

import "github.com/shopspring/decimal"

// RateFunc converts one unit of from into to.
type RateFunc func(from, to string) (decimal.Decimal, error)

// ValuationLine is one wallet converted into the base currency. Rate and
// Value are zero when Resolved is false.
type ValuationLine struct {
	Code     string
	Balance  decimal.Decimal
	Rate     decimal.Decimal
	Value    decimal.Decimal
	Resolved bool
}

// Valuation is a portfolio expressed in one base currency. Wallets whose rate
// could not be resolved contribute zero to Total and are listed in Unresolved.
type Valuation struct {
	Base       string
	Lines      []ValuationLine
	Total      decimal.Decimal
	Unresolved []string
}

// TotalValue converts every wallet into base, in code order. The base wallet
// itself is taken at rate 1 without a lookup.
func (p *Portfolio) TotalValue(base string, rate RateFunc) Valuation {
	base = NormalizeCode(base)
	v := Valuation{Base: base, Total: decimal.Zero}
	for _, code := range p.Codes() {
		w := p.wallets[code]
		line := ValuationLine{Code: code, Balance: w.Balance()}
		if code == base {
			line.Rate, line.Resolved = decimal.NewFromInt(1), true
		} else if r, err := rate(code, base); err == nil {
			line.Rate, line.Resolved = r, true
		}
		if line.Resolved {
			line.Value = line.Balance.Mul(line.Rate)
			v.Total = v.Total.Add(line.Value)
		} else {
			v.Unresolved = append(v.Unresolved, code)
		}
		v.Lines = append(v.Lines, line)
	}
	return v
}
