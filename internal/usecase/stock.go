package usecase

import (
	"context"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
	"github.com/tomasvalko/minimart/internal/domain/repository"
)

// StockUseCase encapsulates warehouse logic of the stock service.
type StockUseCase struct {
	stock repository.StockRepository
}

// NewStockUseCase constructs StockUseCase.
func NewStockUseCase(stock repository.StockRepository) *StockUseCase {
	return &StockUseCase{stock: stock}
}

// Create registers a new stock item.
func (u *StockUseCase) Create(ctx context.Context, category, name string, amount int64) (*model.StockItem, error) {
	if category == "" || name == "" || amount < 0 {
		return nil, domainErrors.ErrInvalidItems
	}
	return u.stock.Create(ctx, category, name, amount)
}

// Get returns a single item by identifier.
func (u *StockUseCase) Get(ctx context.Context, id int64) (*model.StockItem, error) {
	return u.stock.GetByID(ctx, id)
}

// ListByCategory returns items within one category.
func (u *StockUseCase) ListByCategory(ctx context.Context, category string) ([]model.StockItem, error) {
	return u.stock.ListByCategory(ctx, category)
}

// ListAll returns the full inventory.
func (u *StockUseCase) ListAll(ctx context.Context) ([]model.StockItem, error) {
	return u.stock.ListAll(ctx)
}

// Replace overwrites name, category, and amount of an existing item.
func (u *StockUseCase) Replace(ctx context.Context, item model.StockItem) (*model.StockItem, error) {
	if item.Category == "" || item.Name == "" || item.Amount < 0 {
		return nil, domainErrors.ErrInvalidItems
	}
	return u.stock.Replace(ctx, item)
}

// Check reports whether every requested line can be fulfilled.
func (u *StockUseCase) Check(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	if err := validateLineItems(items); err != nil {
		return nil, err
	}
	return u.stock.CheckAvailability(ctx, items)
}

// Decrease reduces stored amounts line by line and reports the outcome.
func (u *StockUseCase) Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	if err := validateLineItems(items); err != nil {
		return nil, err
	}
	return u.stock.Decrease(ctx, items)
}

func validateLineItems(items []model.LineItem) error {
	if len(items) == 0 {
		return domainErrors.ErrInvalidItems
	}
	for _, item := range items {
		if item.ID <= 0 || item.Amount <= 0 {
			return domainErrors.ErrInvalidItems
		}
	}
	return nil
}
