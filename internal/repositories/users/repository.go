// Package users persists user records. Both implementations keep the same
// contract: ids are assigned by NextID as max(id)+1 and usernames are unique.
package users

import (
	"context"

	"github.com/dmitrijs2005/valutatrade/internal/models"
)

type Repository interface {
	// Save inserts u or replaces the record with the same id.
	Save(ctx context.Context, u *models.User) error
	// GetByID returns common.ErrorNotFound when there is no such user.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByUsername returns common.ErrorNotFound when there is no such user.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	NextID(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*models.User, error)
}
