package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/dbx"
	"github.com/dmitrijs2005/valutatrade/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, hashed_password, salt, registration_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			hashed_password = excluded.hashed_password`,
		u.ID, u.Username, u.HashedPassword, u.Salt, u.RegisteredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return common.NewDatabaseError("save user", err)
	}
	return nil
}

const selectUser = `SELECT id, username, hashed_password, salt, registration_date FROM users`

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE username = ?`, username))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var registered string
	err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.Salt, &registered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, common.NewDatabaseError("get user", err)
	}
	if u.RegisteredAt, err = time.Parse(time.RFC3339Nano, registered); err != nil {
		return nil, common.NewDatabaseError("parse registration_date", err)
	}
	return u, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, common.NewDatabaseError("user exists", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM users`).Scan(&id)
	if err != nil {
		return 0, common.NewDatabaseError("next user id", err)
	}
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY id`)
	if err != nil {
		return nil, common.NewDatabaseError("list users", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewDatabaseError("list users", err)
	}
	return out, nil
}
