package rates

import (
	"context"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/filex"
	"github.com/dmitrijs2005/valutatrade/internal/models"
)

// JSONRepository keeps the current table in one file and the history, a JSON
// array, in another.
type JSONRepository struct {
	table   filex.Collection[*models.RateTable]
	history filex.Collection[[]models.RateSnapshot]
}

func NewJSONRepository(table filex.Collection[*models.RateTable], history filex.Collection[[]models.RateSnapshot]) *JSONRepository {
	return &JSONRepository{table: table, history: history}
}

func (r *JSONRepository) Save(ctx context.Context, t *models.RateTable) error {
	if err := r.table.Store(t); err != nil {
		return common.NewDatabaseError("save rates", err)
	}
	return nil
}

func (r *JSONRepository) Load(ctx context.Context) (*models.RateTable, error) {
	t, err := r.table.Load()
	if err != nil {
		return nil, common.NewDatabaseError("load rates", err)
	}
	if t == nil {
		return &models.RateTable{Pairs: map[string]models.RatePair{}}, nil
	}
	if t.Pairs == nil {
		t.Pairs = map[string]models.RatePair{}
	}
	return t, nil
}

func (r *JSONRepository) IsFresh(ctx context.Context, now time.Time, ttl time.Duration) (bool, error) {
	return isFresh(ctx, r, now, ttl)
}

func (r *JSONRepository) AppendHistory(ctx context.Context, s models.RateSnapshot, limit int) error {
	list, err := r.history.Load()
	if err != nil {
		return common.NewDatabaseError("load rate history", err)
	}
	list = append(list, s)
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	if err := r.history.Store(list); err != nil {
		return common.NewDatabaseError("save rate history", err)
	}
	return nil
}

func (r *JSONRepository) History(ctx context.Context) ([]models.RateSnapshot, error) {
	list, err := r.history.Load()
	if err != nil {
		return nil, common.NewDatabaseError("load rate history", err)
	}
	return list, nil
}
