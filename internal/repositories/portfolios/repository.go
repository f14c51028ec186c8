// Package portfolios persists one portfolio per user.
package portfolios

import (
	"context"

	"github.com/dmitrijs2005/valutatrade/internal/models"
)

type Repository interface {
	// Save writes the whole portfolio in one step.
	Save(ctx context.Context, p *models.Portfolio) error
	// Get returns an empty portfolio when the user has none stored yet.
	Get(ctx context.Context, userID int64) (*models.Portfolio, error)
}
