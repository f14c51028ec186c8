package dbx

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// sqlitePragmas are applied to every connection we hand out. The pool is
// pinned to one connection, so applying them once is enough.
var sqlitePragmas = []string{
	`PRAGMA foreign_keys = ON`,
	`PRAGMA busy_timeout = 5000`,
	`PRAGMA journal_mode = WAL`,
}

// OpenSQLite opens dsn (a file path or ":memory:") with a single connection,
// so an in-memory database is shared by every statement.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, common.NewDatabaseError("open", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, common.NewDatabaseError("pragma", err)
		}
	}
	return db, nil
}
