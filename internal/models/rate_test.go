package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKey(t *testing.T) {
	assert.Equal(t, "BTC_USD", PairKey(" btc", "usd "))

	from, to, ok := SplitPairKey("EUR_USD")
	require.True(t, ok)
	assert.Equal(t, "EUR", from)
	assert.Equal(t, "USD", to)

	for _, bad := range []string{"EURUSD", "_USD", "EUR_"} {
		_, _, ok := SplitPairKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestRateTable_SetGet(t *testing.T) {
	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)
	tbl := &RateTable{}

	require.NoError(t, tbl.Set("btc", "usd", RatePair{Rate: dec("59337.21"), Source: "CoinGecko", UpdatedAt: now}))
	assert.ErrorIs(t, tbl.Set("X", "Y", RatePair{Rate: decimal.Zero}), common.ErrValidation)

	p, ok := tbl.Get("BTC", "USD")
	require.True(t, ok)
	assert.Equal(t, "CoinGecko", p.Source)
	_, ok = tbl.Get("USD", "BTC")
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len())

	var nilTable *RateTable
	_, ok = nilTable.Get("BTC", "USD")
	assert.False(t, ok)
}

func TestRateTable_IsFresh(t *testing.T) {
	now := time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute

	tbl := NewRateTable(SourceMerged, now.Add(-ttl))
	assert.False(t, tbl.IsFresh(now, ttl), "empty table is never fresh")

	require.NoError(t, tbl.Set("EUR", "USD", RatePair{Rate: dec("1.0786")}))
	assert.True(t, tbl.IsFresh(now, ttl), "boundary is inclusive")

	tbl.LastRefresh = now.Add(-ttl - time.Second)
	assert.False(t, tbl.IsFresh(now, ttl))

	tbl.LastRefresh = time.Time{}
	assert.False(t, tbl.IsFresh(now, ttl))

	var nilTable *RateTable
	assert.False(t, nilTable.IsFresh(now, ttl))
}

func TestQuote_Inverse(t *testing.T) {
	q := Quote{From: "USD", To: "EUR", Rate: dec("2"), Source: SourceReverse}
	inv := q.Inverse()
	assert.Equal(t, "EUR", inv.From)
	assert.Equal(t, "USD", inv.To)
	assert.Equal(t, "0.5", inv.Rate.String())
}
