package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Portfolio owns the wallets of one user, at most one per currency code.
// Wallets are created on demand and never removed.
type Portfolio struct {
	userID  int64
	wallets map[string]*Wallet
}

func NewPortfolio(userID int64) *Portfolio {
	return &Portfolio{userID: userID, wallets: make(map[string]*Wallet)}
}

func (p *Portfolio) UserID() int64 { return p.userID }

// AddCurrency returns the existing wallet for code, or creates one holding
// initial. initial is ignored when the wallet already exists.
func (p *Portfolio) AddCurrency(code string, initial decimal.Decimal) (*Wallet, error) {
	c, err := ParseCode(code)
	if err != nil {
		return nil, err
	}
	if w, ok := p.wallets[c]; ok {
		return w, nil
	}
	w, err := NewWallet(c, initial)
	if err != nil {
		return nil, err
	}
	p.wallets[c] = w
	return w, nil
}

// Wallet looks up a wallet; a missing wallet is not an error.
func (p *Portfolio) Wallet(code string) (*Wallet, bool) {
	w, ok := p.wallets[NormalizeCode(code)]
	return w, ok
}

// Codes lists held currencies in ascending order.
func (p *Portfolio) Codes() []string {
	codes := make([]string, 0, len(p.wallets))
	for c := range p.wallets {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

func (p *Portfolio) Len() int { return len(p.wallets) }

func (p *Portfolio) String() string {
	return fmt.Sprintf("Portfolio(user_id=%d, wallets=%d)", p.userID, len(p.wallets))
}

type portfolioJSON struct {
	UserID  int64              `json:"user_id"`
	Wallets map[string]*Wallet `json:"wallets"`
}

func (p *Portfolio) MarshalJSON() ([]byte, error) {
	return json.Marshal(portfolioJSON{UserID: p.userID, Wallets: p.wallets})
}

// UnmarshalJSON re-keys wallets by their own normalized code, so a hand-edited
// file cannot produce two wallets for one currency.
func (p *Portfolio) UnmarshalJSON(b []byte) error {
	var raw portfolioJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := NewPortfolio(raw.UserID)
	for key, w := range raw.Wallets {
		if w == nil {
			return fmt.Errorf("wallet %q is null", key)
		}
		if _, dup := out.wallets[w.Code()]; dup {
			return fmt.Errorf("duplicate wallet %q", w.Code())
		}
		out.wallets[w.Code()] = w
	}
	*p = *out
	return nil
}
