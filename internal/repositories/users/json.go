package users

import (
	"context"
	"errors"
	"slices"

	"github.com/dmitrijs2005/valutatrade/internal/common"
	"github.com/dmitrijs2005/valutatrade/internal/filex"
	"github.com/dmitrijs2005/valutatrade/internal/models"
)

// JSONRepository keeps all users in one JSON array.
type JSONRepository struct {
	store filex.Collection[[]*models.User]
}

func NewJSONRepository(store filex.Collection[[]*models.User]) *JSONRepository {
	return &JSONRepository{store: store}
}

func (r *JSONRepository) load() ([]*models.User, error) {
	list, err := r.store.Load()
	if err != nil {
		return nil, common.NewDatabaseError("load users", err)
	}
	return list, nil
}

func (r *JSONRepository) Save(ctx context.Context, u *models.User) error {
	list, err := r.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(list, func(x *models.User) bool { return x.ID == u.ID })
	if i >= 0 {
		list[i] = u
	} else {
		list = append(list, u)
	}
	if err := r.store.Store(list); err != nil {
		return common.NewDatabaseError("save users", err)
	}
	return nil
}

func (r *JSONRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *JSONRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *JSONRepository) find(match func(*models.User) bool) (*models.User, error) {
	list, err := r.load()
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(list, match)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return list[i], nil
}

func (r *JSONRepository) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *JSONRepository) NextID(ctx context.Context) (int64, error) {
	list, err := r.load()
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, u := range list {
		maxID = max(maxID, u.ID)
	}
	return maxID + 1, nil
}

func (r *JSONRepository) List(ctx context.Context) ([]*models.User, error) {
	return r.load()
}
