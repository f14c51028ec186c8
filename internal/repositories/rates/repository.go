// Package rates persists the cached rate table and its bounded refresh
// history.
package rates

import (
	"context"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/models"
)

type Repository interface {
	// Save replaces the whole table.
	Save(ctx context.Context, t *models.RateTable) error
	// Load never returns a nil table; nothing stored yields an empty one.
	Load(ctx context.Context) (*models.RateTable, error)
	// IsFresh reports whether the stored table was refreshed within ttl of now.
	IsFresh(ctx context.Context, now time.Time, ttl time.Duration) (bool, error)
	// AppendHistory adds s and drops the oldest entries beyond limit.
	AppendHistory(ctx context.Context, s models.RateSnapshot, limit int) error
	// History lists snapshots oldest first.
	History(ctx context.Context) ([]models.RateSnapshot, error)
}

func isFresh(ctx context.Context, r Repository, now time.Time, ttl time.Duration) (bool, error) {
	t, err := r.Load(ctx)
	if err != nil {
		return false, err
	}
	return t.IsFresh(now, ttl), nil
}
