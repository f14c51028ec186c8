package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/config"
	"github.com/dmitrijs2005/valutatrade/internal/dbx"
	"github.com/dmitrijs2005/valutatrade/internal/filex"
	"github.com/dmitrijs2005/valutatrade/internal/logging"
	"github.com/dmitrijs2005/valutatrade/internal/migrations"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/portfolios"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/rates"
	"github.com/dmitrijs2005/valutatrade/internal/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories bound either to
// the database or to a transaction.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

// NewSQLiteRepositoryManager opens <data dir>/<sqlite file> and migrates it.
func NewSQLiteRepositoryManager(ctx context.Context, cfg *config.Config, log logging.Logger) (*SQLiteRepositoryManager, error) {
	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, common.NewDatabaseError("create data dir", err)
	}
	path := cfg.Path(cfg.SQLiteFile)
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err := NewSQLiteRepositoryManagerFromDB(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug(ctx, "sqlite storage ready", "path", path)
	return m, nil
}

// NewSQLiteRepositoryManagerFromDB migrates an already opened database and
// takes ownership of it.
func NewSQLiteRepositoryManagerFromDB(ctx context.Context, db *sql.DB) (*SQLiteRepositoryManager, error) {
	if err := migrations.Up(ctx, db); err != nil {
		return nil, common.NewDatabaseError("migrate", err)
	}
	return &SQLiteRepositoryManager{db: db}, nil
}

func (m *SQLiteRepositoryManager) bind(db dbx.DBTX) Repositories {
	return Repositories{
		Users:      users.NewSQLiteRepository(db),
		Portfolios: portfolios.NewSQLiteRepository(db),
		Rates:      rates.NewSQLiteRepository(db),
	}
}

func (m *SQLiteRepositoryManager) Repositories() Repositories {
	return m.bind(m.db)
}

func (m *SQLiteRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.bind(tx))
	})
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
