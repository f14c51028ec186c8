package models

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/shopspring/decimal"
)

// Wallet is a single-currency balance that never goes below zero.
type Wallet struct {
	code    string
	balance decimal.Decimal
}

// NewWallet normalizes code and rejects a negative initial balance.
func NewWallet(code string, initial decimal.Decimal) (*Wallet, error) {
	c, err := ParseCode(code)
	if err != nil {
		return nil, err
	}
	if initial.IsNegative() {
		return nil, common.NewValidationError("balance", "must not be negative")
	}
	return &Wallet{code: c, balance: initial}, nil
}

func (w *Wallet) Code() string { return w.code }

func (w *Wallet) Balance() decimal.Decimal { return w.balance }

func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.NewValidationError("amount", "deposit must be positive")
	}
	w.balance = w.balance.Add(amount)
	return nil
}

func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return common.NewValidationError("amount", "withdrawal must be positive")
	}
	if amount.GreaterThan(w.balance) {
		return &common.InsufficientFundsError{Available: w.balance, Required: amount, Code: w.code}
	}
	w.balance = w.balance.Sub(amount)
	return nil
}

func (w *Wallet) String() string {
	return fmt.Sprintf("wallet %s: %s", w.code, w.balance.StringFixed(2))
}

type walletJSON struct {
	CurrencyCode string          `json:"currency_code"`
	Balance      decimal.Decimal `json:"balance"`
}

func (w *Wallet) MarshalJSON() ([]byte, error) {
	return json.Marshal(walletJSON{CurrencyCode: w.code, Balance: w.balance})
}

// UnmarshalJSON applies the same validation as NewWallet.
func (w *Wallet) UnmarshalJSON(b []byte) error {
	var raw walletJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := NewWallet(raw.CurrencyCode, raw.Balance)
	if err != nil {
		return err
	}
	*w = *v
	return nil
}
