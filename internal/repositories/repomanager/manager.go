// Package repomanager picks a storage backend and hands out repositories,
// either directly or bound to one unit of work.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/portfolios"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/users"
)

// Repositories is one consistent view of the stores.
type Repositories struct {
	Users      users.Repository
	Portfolios portfolios.Repository
	Rates      rates.Repository
}

type RepositoryManager interface {
	// Repositories returns stores that write through immediately.
	Repositories() Repositories
	// WithinTx runs fn against stores bound to one unit of work. Nothing fn
	// wrote is kept when it returns an error.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Close() error
}

// New builds the backend selected by cfg.Storage.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (RepositoryManager, error) {
	if cfg.Storage == config.StorageSQLite {
		return NewSQLiteRepositoryManager(ctx, cfg, log)
	}
	return NewJSONRepositoryManager(cfg, log)
}
