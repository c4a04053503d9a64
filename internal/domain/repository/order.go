package repository

import (
	"context"
	"time"

	"github.com/tomasvalko/minimart/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// Order creation is split in two short transactions so that no database lock
// is held across the remote stock decrement: Stage inserts an invisible row,
// Finalize flips it to created, Discard compensates a failed decrement.
type OrderRepository interface {
	Stage(ctx context.Context, userID int64, username string, items []model.LineItem) (*model.Order, error)
	Finalize(ctx context.Context, orderID int64) (*model.Order, error)
	Discard(ctx context.Context, orderID int64) error
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	DeleteStaleStaged(ctx context.Context, olderThan time.Duration, limit int) (int64, error)
}
