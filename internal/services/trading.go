package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// TradeResult describes a completed buy or sell. BaseAmount is the cost of a
// purchase or the revenue of a sale, in Base.
type TradeResult struct {
	Currency   string
	Amount     decimal.Decimal
	Rate       decimal.Decimal
	Base       string
	BaseAmount decimal.Decimal
	NewBalance decimal.Decimal
	Message    string
}

func parseTrade(code string, amount decimal.Decimal) (string, error) {
	c, err := models.ParseCode(code)
	if err != nil {
		return "", err
	}
	if !amount.IsPositive() {
		return "", common.NewValidationError("amount", "must be positive")
	}
	return c, nil
}

// Buy credits amount of code to the current user, paid from the base wallet
// at the resolved code->base rate. Buying the base currency itself credits it
// directly.
func (s *LedgerService) Buy(ctx context.Context, code string, amount decimal.Decimal) (*TradeResult, error) {
	return observe(s, ctx, "buy", []any{"currency", code, "amount", amount.String()}, func(ctx context.Context) (*TradeResult, error) {
		sess, err := s.requireSession()
		if err != nil {
			return nil, err
		}
		code, err := parseTrade(code, amount)
		if err != nil {
			return nil, err
		}

		var res *TradeResult
		err = s.repos.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
			q, err := s.resolver.Lookup(ctx, r.Rates, code, s.base)
			if err != nil {
				return err
			}
			p, err := r.Portfolios.Get(ctx, sess.UserID)
			if err != nil {
				return err
			}

			cost := amount.Mul(q.Rate)
			if code != s.base {
				baseWallet, ok := p.Wallet(s.base)
				if !ok {
					return &common.InsufficientFundsError{Available: decimal.Zero, Required: cost, Code: s.base}
				}
				if err := baseWallet.Withdraw(cost); err != nil {
					return err
				}
			}

			w, err := p.AddCurrency(code, decimal.Zero)
			if err != nil {
				return err
			}
			if err := w.Deposit(amount); err != nil {
				return err
			}
			if err := r.Portfolios.Save(ctx, p); err != nil {
				return err
			}

			res = &TradeResult{
				Currency: code, Amount: amount, Rate: q.Rate, Base: s.base,
				BaseAmount: cost, NewBalance: w.Balance(),
				Message: fmt.Sprintf("Purchase completed: %s %s for %s",
					amount.StringFixed(4), code, rates.Format(cost, s.base)),
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// Sell debits amount of code from the current user and credits the base
// wallet, created if needed, at the resolved code->base rate. The base
// currency itself cannot be sold.
func (s *LedgerService) Sell(ctx context.Context, code string, amount decimal.Decimal) (*TradeResult, error) {
	return observe(s, ctx, "sell", []any{"currency", code, "amount", amount.String()}, func(ctx context.Context) (*TradeResult, error) {
		sess, err := s.requireSession()
		if err != nil {
			return nil, err
		}
		code, err := parseTrade(code, amount)
		if err != nil {
			return nil, err
		}
		if code == s.base {
			return nil, common.NewValidationError("currency", "cannot sell the base currency "+s.base)
		}

		var res *TradeResult
		err = s.repos.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
			p, err := r.Portfolios.Get(ctx, sess.UserID)
			if err != nil {
				return err
			}
			w, ok := p.Wallet(code)
			if !ok {
				return common.NewCurrencyNotFoundError(code)
			}
			if amount.GreaterThan(w.Balance()) {
				return &common.InsufficientFundsError{Available: w.Balance(), Required: amount, Code: code}
			}
			q, err := s.resolver.Lookup(ctx, r.Rates, code, s.base)
			if err != nil {
				return err
			}

			revenue := amount.Mul(q.Rate)
			if err := w.Withdraw(amount); err != nil {
				return err
			}
			baseWallet, err := p.AddCurrency(s.base, decimal.Zero)
			if err != nil {
				return err
			}
			if err := baseWallet.Deposit(revenue); err != nil {
				return err
			}
			if err := r.Portfolios.Save(ctx, p); err != nil {
				return err
			}

			res = &TradeResult{
				Currency: code, Amount: amount, Rate: q.Rate, Base: s.base,
				BaseAmount: revenue, NewBalance: w.Balance(),
				Message: fmt.Sprintf("Sale completed: %s %s for %s",
					amount.StringFixed(4), code, rates.Format(revenue, s.base)),
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// WalletBalance returns the current user's balance in code, zero when there
// is no such wallet.
func (s *LedgerService) WalletBalance(ctx context.Context, code string) (decimal.Decimal, error) {
	sess, err := s.requireSession()
	if err != nil {
		return decimal.Zero, err
	}
	p, err := s.repos.Repositories().Portfolios.Get(ctx, sess.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	if w, ok := p.Wallet(code); ok {
		return w.Balance(), nil
	}
	return decimal.Zero, nil
}
