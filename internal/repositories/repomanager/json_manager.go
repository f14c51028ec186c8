package repomanager

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/filex"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/portfolios"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/users"
)

// JSONRepositoryManager stores each collection in its own file under the
// data directory. A unit of work stages writes in memory and flushes the
// touched files, each by atomic replace, only after fn succeeds.
type JSONRepositoryManager struct {
	mu sync.Mutex

	users      filex.JSONFile[[]*models.User]
	portfolios filex.JSONFile[[]*models.Portfolio]
	rates      filex.JSONFile[*models.RateTable]
	history    filex.JSONFile[[]models.RateSnapshot]
}

func NewJSONRepositoryManager(cfg *config.Config, log logging.Logger) (*JSONRepositoryManager, error) {
	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, common.NewDatabaseError("create data dir", err)
	}
	onCorrupt := func(path, backup string, cause error) {
		log.Warn(context.Background(), "corrupt data file moved aside", "path", path, "backup", backup, "error", cause)
	}
	return &JSONRepositoryManager{
		users:      filex.JSONFile[[]*models.User]{Path: cfg.Path(cfg.UsersFile), OnCorrupt: onCorrupt},
		portfolios: filex.JSONFile[[]*models.Portfolio]{Path: cfg.Path(cfg.PortfoliosFile), OnCorrupt: onCorrupt},
		rates:      filex.JSONFile[*models.RateTable]{Path: cfg.Path(cfg.RatesFile), OnCorrupt: onCorrupt},
		history:    filex.JSONFile[[]models.RateSnapshot]{Path: cfg.Path(cfg.HistoryFile), OnCorrupt: onCorrupt},
	}, nil
}

func (m *JSONRepositoryManager) Repositories() Repositories {
	return Repositories{
		Users:      users.NewJSONRepository(m.users),
		Portfolios: portfolios.NewJSONRepository(m.portfolios),
		Rates:      rates.NewJSONRepository(m.rates, m.history),
	}
}

type flusher interface {
	Flush() error
}

func (m *JSONRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := filex.NewStaged[[]*models.User](m.users)
	p := filex.NewStaged[[]*models.Portfolio](m.portfolios)
	rt := filex.NewStaged[*models.RateTable](m.rates)
	h := filex.NewStaged[[]models.RateSnapshot](m.history)

	err := fn(ctx, Repositories{
		Users:      users.NewJSONRepository(u),
		Portfolios: portfolios.NewJSONRepository(p),
		Rates:      rates.NewJSONRepository(rt, h),
	})
	if err != nil {
		return err
	}

	var errs []error
	for _, f := range []flusher{u, p, rt, h} {
		if err := f.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return common.NewDatabaseError("commit", errors.Join(errs...))
	}
	return nil
}

func (m *JSONRepositoryManager) Close() error { return nil }
