package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/shopspring/decimal"
)

// Rate sources that are not provider names.
const (
	SourceCache   = "cache"
	SourceReverse = "reverse_calculation"
	SourceDefault = "default"
	SourceMerged  = "merged"
)

// PairKey builds the FROM_TO key used by RateTable.
func PairKey(from, to string) string {
	return NormalizeCode(from) + "_" + NormalizeCode(to)
}

// SplitPairKey is the inverse of PairKey.
func SplitPairKey(key string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(key, "_")
	if !ok || from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}

type RatePair struct {
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RateTable is the cached set of pairs. Freshness applies to the table as a
// whole through LastRefresh.
type RateTable struct {
	Pairs       map[string]RatePair `json:"pairs"`
	LastRefresh time.Time           `json:"last_refresh"`
	Source      string              `json:"source"`
}

func NewRateTable(source string, refreshed time.Time) *RateTable {
	return &RateTable{Pairs: make(map[string]RatePair), LastRefresh: refreshed, Source: source}
}

// Set stores a pair under PairKey(from, to). Non-positive rates are rejected.
func (t *RateTable) Set(from, to string, p RatePair) error {
	if !p.Rate.IsPositive() {
		return common.NewValidationError("rate", "must be positive")
	}
	if t.Pairs == nil {
		t.Pairs = make(map[string]RatePair)
	}
	t.Pairs[PairKey(from, to)] = p
	return nil
}

func (t *RateTable) Get(from, to string) (RatePair, bool) {
	if t == nil {
		return RatePair{}, false
	}
	p, ok := t.Pairs[PairKey(from, to)]
	return p, ok
}

func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Pairs)
}

// IsFresh reports now - LastRefresh <= ttl. A nil, empty or never refreshed
// table is stale.
func (t *RateTable) IsFresh(now time.Time, ttl time.Duration) bool {
	if t == nil || len(t.Pairs) == 0 || t.LastRefresh.IsZero() {
		return false
	}
	return now.Sub(t.LastRefresh) <= ttl
}

// RateSnapshot is one entry of the bounded refresh history.
type RateSnapshot struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Table     RateTable `json:"rates"`
}

// Quote is the answer to a rate lookup. Provider carries the source recorded
// on a cached pair, when there is one.
type Quote struct {
	From      string
	To        string
	Rate      decimal.Decimal
	Source    string
	Provider  string
	UpdatedAt time.Time
}

// Inverse returns the reciprocal quote. The caller guarantees Rate is non-zero.
func (q Quote) Inverse() Quote {
	return Quote{
		From:      q.To,
		To:        q.From,
		Rate:      decimal.NewFromInt(1).DivRound(q.Rate, 12),
		Source:    q.Source,
		Provider:  q.Provider,
		UpdatedAt: q.UpdatedAt,
	}
}
