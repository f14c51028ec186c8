// Package rates answers "how many TO for one FROM" from the cached rate table,
// falling back to the static default table.
package rates

import (
	"context"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/shopspring/decimal"
)

// TableLoader is the part of the rates repository the resolver reads.
type TableLoader interface {
	Load(ctx context.Context) (*models.RateTable, error)
}

// Resolver applies the lookup order
//
//  1. direct cached pair, when the table is fresh (source "cache")
//  2. reverse cached pair, when the table is fresh (source "reverse_calculation")
//  3. default pair
//  4. reverse default pair
//
// and returns a CurrencyNotFoundError when none applies.
type Resolver struct {
	ttl       time.Duration
	defaults  func(from, to string) (decimal.Decimal, bool)
	supported func(code string) bool
	now       func() time.Time
}

type Option func(*Resolver)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(cfg *config.Config, opts ...Option) *Resolver {
	r := &Resolver{
		ttl:       cfg.RatesTTL,
		defaults:  cfg.DefaultRate,
		supported: cfg.IsCurrencySupported,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve picks a rate for from->to out of table, which may be nil.
func (r *Resolver) Resolve(table *models.RateTable, from, to string) (models.Quote, error) {
	from, to = models.NormalizeCode(from), models.NormalizeCode(to)
	if from == "" || to == "" {
		return models.Quote{}, common.NewValidationError("currency_code", "must not be empty")
	}

	if from == to {
		return models.Quote{From: from, To: to, Rate: decimal.NewFromInt(1), Source: models.SourceDefault}, nil
	}

	now := r.now()
	if table.IsFresh(now, r.ttl) {
		if p, ok := table.Get(from, to); ok && p.Rate.IsPositive() {
			return models.Quote{
				From: from, To: to, Rate: p.Rate,
				Source: models.SourceCache, Provider: p.Source, UpdatedAt: p.UpdatedAt,
			}, nil
		}
		if p, ok := table.Get(to, from); ok && p.Rate.IsPositive() {
			q := models.Quote{From: to, To: from, Rate: p.Rate, Provider: p.Source, UpdatedAt: p.UpdatedAt}.Inverse()
			q.Source = models.SourceReverse
			return q, nil
		}
	}

	if rate, ok := r.defaults(from, to); ok && rate.IsPositive() {
		return models.Quote{From: from, To: to, Rate: rate, Source: models.SourceDefault, UpdatedAt: now}, nil
	}
	if rate, ok := r.defaults(to, from); ok && rate.IsPositive() {
		q := models.Quote{From: to, To: from, Rate: rate, UpdatedAt: now}.Inverse()
		q.Source = models.SourceDefault
		return q, nil
	}

	return models.Quote{}, common.NewCurrencyNotFoundError(from + "->" + to)
}

// Lookup loads the current table and resolves from->to against it.
func (r *Resolver) Lookup(ctx context.Context, src TableLoader, from, to string) (models.Quote, error) {
	table, err := src.Load(ctx)
	if err != nil {
		return models.Quote{}, err
	}
	return r.Resolve(table, from, to)
}

// CheckSupported rejects codes outside the configured currency set.
func (r *Resolver) CheckSupported(codes ...string) error {
	for _, c := range codes {
		if !r.supported(c) {
			return common.NewCurrencyNotFoundError(models.NormalizeCode(c))
		}
	}
	return nil
}

// RateFunc binds Resolve to one table, for portfolio valuation.
func (r *Resolver) RateFunc(table *models.RateTable) models.RateFunc {
	return func(from, to string) (decimal.Decimal, error) {
		q, err := r.Resolve(table, from, to)
		if err != nil {
			return decimal.Zero, err
		}
		return q.Rate, nil
	}
}
