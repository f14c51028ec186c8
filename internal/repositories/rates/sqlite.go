package rates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/dbx"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/shopspring/decimal"
)

// SQLiteRepository stores pairs as rows and snapshots as JSON blobs. Save
// issues several statements; bind it to a transaction to make it atomic.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func (r *SQLiteRepository) Save(ctx context.Context, t *models.RateTable) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rate_pairs`); err != nil {
		return common.NewDatabaseError("clear rates", err)
	}
	for key, p := range t.Pairs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO rate_pairs (pair, rate, source, updated_at) VALUES (?, ?, ?, ?)`,
			key, p.Rate.String(), p.Source, formatTime(p.UpdatedAt))
		if err != nil {
			return common.NewDatabaseError("save rate "+key, err)
		}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rate_table (id, source, last_refresh) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET source = excluded.source, last_refresh = excluded.last_refresh`,
		t.Source, formatTime(t.LastRefresh))
	if err != nil {
		return common.NewDatabaseError("save rate table", err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.RateTable, error) {
	t := &models.RateTable{Pairs: map[string]models.RatePair{}}

	var refreshed string
	err := r.db.QueryRowContext(ctx, `SELECT source, last_refresh FROM rate_table WHERE id = 1`).
		Scan(&t.Source, &refreshed)
	if errors.Is(err, sql.ErrNoRows) {
		return t, nil
	}
	if err != nil {
		return nil, common.NewDatabaseError("load rate table", err)
	}
	if t.LastRefresh, err = time.Parse(time.RFC3339Nano, refreshed); err != nil {
		return nil, common.NewDatabaseError("parse last_refresh", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT pair, rate, source, updated_at FROM rate_pairs`)
	if err != nil {
		return nil, common.NewDatabaseError("load rates", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, rate, updated string
		var p models.RatePair
		if err := rows.Scan(&key, &rate, &p.Source, &updated); err != nil {
			return nil, common.NewDatabaseError("scan rate", err)
		}
		if p.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, common.NewDatabaseError("parse rate "+key, err)
		}
		if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, common.NewDatabaseError("parse updated_at "+key, err)
		}
		t.Pairs[key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewDatabaseError("load rates", err)
	}
	return t, nil
}

func (r *SQLiteRepository) IsFresh(ctx context.Context, now time.Time, ttl time.Duration) (bool, error) {
	return isFresh(ctx, r, now, ttl)
}

func (r *SQLiteRepository) AppendHistory(ctx context.Context, s models.RateSnapshot, limit int) error {
	blob, err := json.Marshal(s.Table)
	if err != nil {
		return common.NewDatabaseError("encode snapshot", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO rate_history (id, timestamp, rates) VALUES (?, ?, ?)`,
		s.ID, formatTime(s.Timestamp), string(blob))
	if err != nil {
		return common.NewDatabaseError("append rate history", err)
	}
	if limit <= 0 {
		return nil
	}
	_, err = r.db.ExecContext(ctx, `
		DELETE FROM rate_history
		WHERE seq NOT IN (SELECT seq FROM rate_history ORDER BY seq DESC LIMIT ?)`, limit)
	if err != nil {
		return common.NewDatabaseError("trim rate history", err)
	}
	return nil
}

func (r *SQLiteRepository) History(ctx context.Context) ([]models.RateSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, timestamp, rates FROM rate_history ORDER BY seq`)
	if err != nil {
		return nil, common.NewDatabaseError("load rate history", err)
	}
	defer rows.Close()

	var out []models.RateSnapshot
	for rows.Next() {
		var s models.RateSnapshot
		var ts, blob string
		if err := rows.Scan(&s.ID, &ts, &blob); err != nil {
			return nil, common.NewDatabaseError("scan snapshot", err)
		}
		if s.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, common.NewDatabaseError("parse snapshot timestamp", err)
		}
		if err := json.Unmarshal([]byte(blob), &s.Table); err != nil {
			return nil, common.NewDatabaseError("decode snapshot", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewDatabaseError("load rate history", err)
	}
	return out, nil
}
