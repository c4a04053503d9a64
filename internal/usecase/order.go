package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
	"github.com/tomasvalko/minimart/internal/domain/repository"
)

// StockAuthority is the remote service of record for item quantities.
type StockAuthority interface {
	Check(ctx context.Context, items []model.LineItem) (*model.StockCheck, error)
	Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error)
}

// Placement is the tagged outcome of a placement attempt: either the
// finalized order, or the authority's shortfall report when stock was
// insufficient. Exactly one of the two is set.
type Placement struct {
	Order   *model.Order
	Missing []model.MissingItem
}

// Placed reports whether the order was created.
func (p *Placement) Placed() bool {
	return p != nil && p.Order != nil
}

// OrderUseCase orchestrates order placement against the remote stock
// authority and local persistence.
type OrderUseCase struct {
	orders repository.OrderRepository
	stock  StockAuthority
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, stock StockAuthority) *OrderUseCase {
	return &OrderUseCase{orders: orders, stock: stock}
}

// Place creates exactly one order if and only if the stock authority
// confirms availability and then a successful decrement.
//
// The local write is split in two short transactions so that no database
// lock is held across the remote decrement call: the order is staged
// (invisible), the decrement runs with no local lock held, then the row is
// finalized or discarded. An abandoned staged row, left by a crash between
// the two transactions, is cleaned up by the background reaper.
func (u *OrderUseCase) Place(ctx context.Context, userID int64, username string, items []model.LineItem) (*Placement, error) {
	if err := validateLineItems(items); err != nil {
		return nil, err
	}

	check, err := u.stock.Check(ctx, items)
	if err != nil {
		return nil, err
	}
	if !check.Available {
		return &Placement{Missing: check.Missing}, nil
	}

	staged, err := u.orders.Stage(ctx, userID, username, items)
	if err != nil {
		return nil, err
	}

	decrement, err := u.stock.Decrease(ctx, items)
	if err != nil {
		return nil, u.discard(ctx, staged.ID, err)
	}
	if !decrement.Success {
		return nil, u.discard(ctx, staged.ID, domainErrors.ErrDecrementFailed)
	}

	order, err := u.orders.Finalize(ctx, staged.ID)
	if err != nil {
		return nil, err
	}
	return &Placement{Order: order}, nil
}

func (u *OrderUseCase) discard(ctx context.Context, orderID int64, cause error) error {
	if err := u.orders.Discard(ctx, orderID); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// ListByUser returns finalized orders owned by the user.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// GetByID returns a finalized order regardless of ownership.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// ReapStaged removes staged rows older than the provided age.
func (u *OrderUseCase) ReapStaged(ctx context.Context, olderThan time.Duration, limit int) (int64, error) {
	return u.orders.DeleteStaleStaged(ctx, olderThan, limit)
}
