package repository

import (
	"context"

	"github.com/tomasvalko/minimart/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int64, username, passwordHash *string) (*model.User, error)
	Delete(ctx context.Context, username string) error
}
