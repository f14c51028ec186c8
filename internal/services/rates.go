package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/parser"
)

// GetExchangeRate quotes from->to. Both codes must be configured currencies.
// No session is needed.
func (s *LedgerService) GetExchangeRate(ctx context.Context, from, to string) (models.Quote, error) {
	return observe(s, ctx, "get_rate", []any{"from", from, "to", to}, func(ctx context.Context) (models.Quote, error) {
		if _, err := models.ParseCode(from); err != nil {
			return models.Quote{}, err
		}
		if _, err := models.ParseCode(to); err != nil {
			return models.Quote{}, err
		}
		if err := s.resolver.CheckSupported(from, to); err != nil {
			return models.Quote{}, err
		}
		return s.resolver.Lookup(ctx, s.repos.Repositories().Rates, from, to)
	})
}

// SupportedCurrencies lists the configured currency codes.
func (s *LedgerService) SupportedCurrencies() []string {
	return slices.Clone(s.supported)
}

// UpdateRates refreshes the rate table from the remote providers.
func (s *LedgerService) UpdateRates(ctx context.Context) (parser.UpdateResult, error) {
	return observe(s, ctx, "update_rates", nil, func(ctx context.Context) (parser.UpdateResult, error) {
		if s.updater == nil {
			return parser.UpdateResult{}, &common.ConfigurationError{Detail: "rate updater is not configured"}
		}
		return s.updater.RunUpdate(ctx)
	})
}
