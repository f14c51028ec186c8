package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewResolver(cfg, WithClock(func() time.Time { return now }))
}

func cachedTable(t *testing.T, refreshed time.Time) *models.RateTable {
	t.Helper()
	tbl := models.NewRateTable(models.SourceMerged, refreshed)
	require.NoError(t, tbl.Set("BTC", "USD", models.RatePair{Rate: decimal.RequireFromString("60000"), Source: "CoinGecko", UpdatedAt: refreshed}))
	require.NoError(t, tbl.Set("USD", "GBP", models.RatePair{Rate: decimal.RequireFromString("0.8"), Source: "ExchangeRate-API", UpdatedAt: refreshed}))
	return tbl
}

func TestResolve_SameCurrency(t *testing.T) {
	r := newTestResolver(t)
	q, err := r.Resolve(nil, "usd", " USD ")
	require.NoError(t, err)
	assert.Equal(t, "1", q.Rate.String())
	assert.Equal(t, models.SourceDefault, q.Source)
}

func TestResolve_FreshCacheWins(t *testing.T) {
	r := newTestResolver(t)
	tbl := cachedTable(t, now.Add(-time.Minute))

	q, err := r.Resolve(tbl, "btc", "usd")
	require.NoError(t, err)
	assert.Equal(t, "60000", q.Rate.String())
	assert.Equal(t, models.SourceCache, q.Source)
	assert.Equal(t, "CoinGecko", q.Provider)
	assert.Equal(t, "BTC", q.From)
	assert.Equal(t, "USD", q.To)
}

func TestResolve_FreshReverse(t *testing.T) {
	r := newTestResolver(t)
	tbl := cachedTable(t, now.Add(-time.Minute))

	q, err := r.Resolve(tbl, "GBP", "USD")
	require.NoError(t, err)
	assert.Equal(t, "1.25", q.Rate.String())
	assert.Equal(t, models.SourceReverse, q.Source)
	assert.Equal(t, "GBP", q.From)
	assert.Equal(t, "USD", q.To)
}

func TestResolve_StaleCacheFallsToDefault(t *testing.T) {
	r := newTestResolver(t)
	tbl := cachedTable(t, now.Add(-10*time.Minute))

	q, err := r.Resolve(tbl, "BTC", "USD")
	require.NoError(t, err)
	assert.Equal(t, "59337.21", q.Rate.String())
	assert.Equal(t, models.SourceDefault, q.Source)

	_, err = r.Resolve(tbl, "GBP", "USD")
	assert.ErrorIs(t, err, common.ErrCurrencyNotFound, "stale cache is not consulted at all")
}

func TestResolve_DefaultReverse(t *testing.T) {
	r := newTestResolver(t)

	q, err := r.Resolve(nil, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, models.SourceDefault, q.Source)
	assert.True(t, q.Rate.Sub(decimal.RequireFromString("0.927127758")).Abs().LessThan(decimal.RequireFromString("0.000000001")))
}

func TestResolve_NotFound(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve(nil, "XYZ", "USD")
	var cnf *common.CurrencyNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, "XYZ->USD", cnf.Code)

	_, err = r.Resolve(nil, "", "USD")
	assert.ErrorIs(t, err, common.ErrValidation)
}

type loaderFunc func(ctx context.Context) (*models.RateTable, error)

func (f loaderFunc) Load(ctx context.Context) (*models.RateTable, error) { return f(ctx) }

func TestLookup(t *testing.T) {
	r := newTestResolver(t)

	q, err := r.Lookup(context.Background(), loaderFunc(func(context.Context) (*models.RateTable, error) {
		return cachedTable(t, now), nil
	}), "BTC", "USD")
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, q.Source)

	boom := errors.New("boom")
	_, err = r.Lookup(context.Background(), loaderFunc(func(context.Context) (*models.RateTable, error) {
		return nil, boom
	}), "BTC", "USD")
	assert.ErrorIs(t, err, boom)
}

func TestCheckSupported(t *testing.T) {
	r := newTestResolver(t)
	assert.NoError(t, r.CheckSupported("usd", "BTC"))

	err := r.CheckSupported("USD", "xyz")
	var cnf *common.CurrencyNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, "XYZ", cnf.Code)
}

func TestRateFunc(t *testing.T) {
	r := newTestResolver(t)
	f := r.RateFunc(cachedTable(t, now))

	rate, err := f("BTC", "USD")
	require.NoError(t, err)
	assert.Equal(t, "60000", rate.String())

	_, err = f("DOGE", "USD")
	assert.ErrorIs(t, err, common.ErrCurrencyNotFound)
}
