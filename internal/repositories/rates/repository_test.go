package rates

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/dbx"
	"github.com/dmitrijs2005/valutatrade/internal/filex"
	"github.com/dmitrijs2005/valutatrade/internal/migrations"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONRepo(t *testing.T) Repository {
	t.Helper()
	dir := t.TempDir()
	return NewJSONRepository(
		filex.JSONFile[*models.RateTable]{Path: filepath.Join(dir, "rates.json")},
		filex.JSONFile[[]models.RateSnapshot]{Path: filepath.Join(dir, "exchange_rates.json")},
	)
}

func newSQLiteRepo(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, db))
	return NewSQLiteRepository(db)
}

var backends = map[string]func(*testing.T) Repository{
	"json":   newJSONRepo,
	"sqlite": newSQLiteRepo,
}

var now = time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC)

func sampleTable(t *testing.T) *models.RateTable {
	t.Helper()
	tbl := models.NewRateTable(models.SourceMerged, now)
	require.NoError(t, tbl.Set("BTC", "USD", models.RatePair{Rate: decimal.RequireFromString("59337.21"), Source: "CoinGecko", UpdatedAt: now}))
	require.NoError(t, tbl.Set("EUR", "USD", models.RatePair{Rate: decimal.RequireFromString("1.0786"), Source: "ExchangeRate-API", UpdatedAt: now}))
	return tbl
}

func TestRepository_SaveLoad(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := newRepo(t)

			empty, err := r.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, empty)
			assert.Zero(t, empty.Len())

			fresh, err := r.IsFresh(ctx, now, time.Hour)
			require.NoError(t, err)
			assert.False(t, fresh, "nothing stored is never fresh")

			require.NoError(t, r.Save(ctx, sampleTable(t)))

			got, err := r.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, models.SourceMerged, got.Source)
			assert.True(t, got.LastRefresh.Equal(now))
			p, ok := got.Get("BTC", "USD")
			require.True(t, ok)
			assert.Equal(t, "59337.21", p.Rate.String())
			assert.Equal(t, "CoinGecko", p.Source)

			fresh, err = r.IsFresh(ctx, now.Add(5*time.Minute), 5*time.Minute)
			require.NoError(t, err)
			assert.True(t, fresh)
			fresh, err = r.IsFresh(ctx, now.Add(6*time.Minute), 5*time.Minute)
			require.NoError(t, err)
			assert.False(t, fresh)

			smaller := models.NewRateTable(models.SourceMerged, now.Add(time.Minute))
			require.NoError(t, smaller.Set("ETH", "USD", models.RatePair{Rate: decimal.RequireFromString("3720"), UpdatedAt: now}))
			require.NoError(t, r.Save(ctx, smaller))
			got, err = r.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, got.Len(), "save replaces the whole table")
		})
	}
}

func TestRepository_HistoryIsBounded(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := newRepo(t)
			tbl := sampleTable(t)

			for i := range 5 {
				s := models.RateSnapshot{ID: fmt.Sprintf("snap-%d", i), Timestamp: now.Add(time.Duration(i) * time.Minute), Table: *tbl}
				require.NoError(t, r.AppendHistory(ctx, s, 3))
			}

			h, err := r.History(ctx)
			require.NoError(t, err)
			require.Len(t, h, 3)
			assert.Equal(t, "snap-2", h[0].ID)
			assert.Equal(t, "snap-4", h[2].ID)
			assert.Equal(t, 2, h[2].Table.Len())
		})
	}
}
