package repository

import (
	"context"

	"github.com/tomasvalko/minimart/internal/domain/model"
)

// StockRepository describes persistence operations with stock items.
type StockRepository interface {
	Create(ctx context.Context, category, name string, amount int64) (*model.StockItem, error)
	GetByID(ctx context.Context, id int64) (*model.StockItem, error)
	ListByCategory(ctx context.Context, category string) ([]model.StockItem, error)
	ListAll(ctx context.Context) ([]model.StockItem, error)
	Replace(ctx context.Context, item model.StockItem) (*model.StockItem, error)
	CheckAvailability(ctx context.Context, items []model.LineItem) (*model.StockCheck, error)
	Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error)
}
