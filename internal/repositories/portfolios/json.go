package portfolios

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/filex"
	"github.com/dmitrijs2005/valutatrade/internal/models"
)

// JSONRepository keeps every portfolio in one JSON array.
type JSONRepository struct {
	store filex.Collection[[]*models.Portfolio]
}

func NewJSONRepository(store filex.Collection[[]*models.Portfolio]) *JSONRepository {
	return &JSONRepository{store: store}
}

func (r *JSONRepository) Save(ctx context.Context, p *models.Portfolio) error {
	list, err := r.store.Load()
	if err != nil {
		return common.NewDatabaseError("load portfolios", err)
	}
	i := slices.IndexFunc(list, func(x *models.Portfolio) bool { return x.UserID() == p.UserID() })
	if i >= 0 {
		list[i] = p
	} else {
		list = append(list, p)
	}
	if err := r.store.Store(list); err != nil {
		return common.NewDatabaseError("save portfolios", err)
	}
	return nil
}

func (r *JSONRepository) Get(ctx context.Context, userID int64) (*models.Portfolio, error) {
	list, err := r.store.Load()
	if err != nil {
		return nil, common.NewDatabaseError("load portfolios", err)
	}
	for _, p := range list {
		if p.UserID() == userID {
			return p, nil
		}
	}
	return models.NewPortfolio(userID), nil
}
