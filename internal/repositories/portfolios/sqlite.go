package portfolios

import (
	"context"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/dbx"
	"github.com/dmitrijs2005/valutatrade/internal/models"
	"github.com/shopspring/decimal"
)

// SQLiteRepository stores one row per portfolio and one per wallet. Callers
// that need Save to be atomic bind it to a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, p *models.Portfolio) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO portfolios (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`, p.UserID())
	if err != nil {
		return common.NewDatabaseError("save portfolio", err)
	}
	for _, code := range p.Codes() {
		w, _ := p.Wallet(code)
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO wallets (user_id, currency_code, balance) VALUES (?, ?, ?)
			ON CONFLICT(user_id, currency_code) DO UPDATE SET balance = excluded.balance`,
			p.UserID(), w.Code(), w.Balance().String())
		if err != nil {
			return common.NewDatabaseError("save wallet "+code, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID int64) (*models.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT currency_code, balance FROM wallets WHERE user_id = ? ORDER BY currency_code`, userID)
	if err != nil {
		return nil, common.NewDatabaseError("get portfolio", err)
	}
	defer rows.Close()

	p := models.NewPortfolio(userID)
	for rows.Next() {
		var code, balance string
		if err := rows.Scan(&code, &balance); err != nil {
			return nil, common.NewDatabaseError("scan wallet", err)
		}
		b, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, common.NewDatabaseError("parse balance of "+code, err)
		}
		if _, err := p.AddCurrency(code, b); err != nil {
			return nil, common.NewDatabaseError("load wallet "+code, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewDatabaseError("get portfolio", err)
	}
	return p, nil
}
