package parser

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProviderError is the failure of one provider during an update.
type ProviderError struct {
	Provider string
	Err      error
}

// UpdateResult summarizes one RunUpdate.
type UpdateResult struct {
	Success    bool
	PairsCount int
	Timestamp  time.Time
	Errors     []ProviderError
	// Skipped lists "source:pair" entries dropped for a bad key or rate.
	Skipped []string
}

// Updater refreshes the stored rate table from its providers.
type Updater struct {
	providers    []Provider
	repos        repomanager.RepositoryManager
	historyLimit int
	log          logging.Logger
	now          func() time.Time
}

func NewUpdater(providers []Provider, repos repomanager.RepositoryManager, historyLimit int, log logging.Logger) *Updater {
	return &Updater{
		providers:    providers,
		repos:        repos,
		historyLimit: historyLimit,
		log:          log,
		now:          time.Now,
	}
}

// DefaultProviders builds CoinGecko followed by ExchangeRate-API, so fiat
// quotes win over crypto quotes for the same pair.
func DefaultProviders(cfg *config.Config) []Provider {
	client := newHTTPClient(cfg.RequestTimeout)
	return []Provider{
		NewCoinGecko(client, cfg.CoinGeckoURL, cfg.CryptoIDs, cfg.DefaultBaseCurrency),
		NewExchangeRateAPI(client, cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey, cfg.DefaultBaseCurrency),
	}
}

type fetchOutcome struct {
	snap Snapshot
	err  error
}

// fetchAll queries every provider concurrently. A failing provider does not
// cancel the others.
func (u *Updater) fetchAll(ctx context.Context) []fetchOutcome {
	out := make([]fetchOutcome, len(u.providers))
	var g errgroup.Group
	for i, p := range u.providers {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					out[i] = fetchOutcome{err: common.NewApiRequestError("%s: panic: %v", p.Name(), r)}
				}
			}()
			snap, err := p.Fetch(ctx)
			out[i] = fetchOutcome{snap: snap, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Merge combines snapshots into one table in the given order; a later
// snapshot overrides an earlier one for the same pair. Entries with a bad key
// or a non-positive rate are left out and returned as "source:key", sorted.
func Merge(snaps []Snapshot, now time.Time) (*models.RateTable, []string) {
	table := models.NewRateTable(models.SourceMerged, now)
	var skipped []string
	for _, s := range snaps {
		for key, rate := range s.Rates {
			from, to, ok := models.SplitPairKey(key)
			if !ok {
				skipped = append(skipped, s.Source+":"+key)
				continue
			}
			if err := table.Set(from, to, models.RatePair{Rate: rate, Source: s.Source, UpdatedAt: s.FetchedAt}); err != nil {
				skipped = append(skipped, s.Source+":"+key)
			}
		}
	}
	slices.Sort(skipped)
	return table, skipped
}

// RunUpdate fetches, merges and stores a new table, then records it in the
// history. It fails only when no provider delivered rates or the table could
// not be stored; provider failures alongside a success are in the result.
func (u *Updater) RunUpdate(ctx context.Context) (UpdateResult, error) {
	u.log.Info(ctx, "rates update started", "providers", len(u.providers))

	var res UpdateResult
	var snaps []Snapshot
	for i, o := range u.fetchAll(ctx) {
		name := u.providers[i].Name()
		if o.err == nil && len(o.snap.Rates) == 0 {
			o.err = common.NewApiRequestError("%s: no rates in response", name)
		}
		if o.err != nil {
			u.log.Warn(ctx, "provider failed", "provider", name, "error", o.err)
			res.Errors = append(res.Errors, ProviderError{Provider: name, Err: o.err})
			continue
		}
		u.log.Debug(ctx, "provider ok", "provider", name, "pairs", len(o.snap.Rates))
		snaps = append(snaps, o.snap)
	}
	if len(snaps) == 0 {
		return res, common.NewApiRequestError("no provider returned rates (%d failed)", len(res.Errors))
	}

	now := u.now()
	table, skipped := Merge(snaps, now)
	for _, k := range skipped {
		u.log.Warn(ctx, "rate skipped", "pair", k)
	}
	res.Skipped = skipped
	err := u.repos.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		return r.Rates.Save(ctx, table)
	})
	if err != nil {
		return res, fmt.Errorf("store rates: %w", err)
	}

	res.Success = true
	res.PairsCount = table.Len()
	res.Timestamp = now
	u.log.Info(ctx, "rates updated", "pairs", res.PairsCount, "failed_providers", len(res.Errors))

	snap := models.RateSnapshot{ID: uuid.NewString(), Timestamp: now, Table: *table}
	if err := u.repos.Repositories().Rates.AppendHistory(ctx, snap, u.historyLimit); err != nil {
		u.log.Warn(ctx, "rate history not recorded", "error", err)
	}
	return res, nil
}

// Run refreshes rates every interval until ctx is done. Failures are logged
// and the loop keeps going.
func (u *Updater) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := u.RunUpdate(ctx); err != nil {
				u.log.Error(ctx, "scheduled rates update failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
