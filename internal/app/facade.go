package app

import (
	"context"
	"time"

	"github.com/tomasvalko/minimart/internal/domain/model"
	pkgAuth "github.com/tomasvalko/minimart/internal/pkg/auth"
	"github.com/tomasvalko/minimart/internal/usecase"
)

// UserFacade aggregates the operations exposed by the user service.
type UserFacade struct {
	auth *usecase.AuthUseCase
}

func NewUserFacade(auth *usecase.AuthUseCase) *UserFacade {
	return &UserFacade{auth: auth}
}

func (f *UserFacade) Register(ctx context.Context, username, password string) (*model.User, error) {
	return f.auth.Register(ctx, username, password)
}

func (f *UserFacade) Authenticate(ctx context.Context, username, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, username, password)
	return token, err
}

func (f *UserFacade) ParseToken(token string) (*pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *UserFacade) User(ctx context.Context, username string) (*model.User, error) {
	return f.auth.GetByUsername(ctx, username)
}

func (f *UserFacade) Users(ctx context.Context) ([]model.User, error) {
	return f.auth.List(ctx)
}

func (f *UserFacade) UpdateUser(ctx context.Context, id int64, username, password *string) (*model.User, error) {
	return f.auth.Update(ctx, id, username, password)
}

func (f *UserFacade) DeleteUser(ctx context.Context, username string) error {
	return f.auth.Delete(ctx, username)
}

// StockFacade aggregates the operations exposed by the stock service.
type StockFacade struct {
	stock *usecase.StockUseCase
}

func NewStockFacade(stock *usecase.StockUseCase) *StockFacade {
	return &StockFacade{stock: stock}
}

func (f *StockFacade) CreateItem(ctx context.Context, category, name string, amount int64) (*model.StockItem, error) {
	return f.stock.Create(ctx, category, name, amount)
}

func (f *StockFacade) Item(ctx context.Context, id int64) (*model.StockItem, error) {
	return f.stock.Get(ctx, id)
}

func (f *StockFacade) ItemsByCategory(ctx context.Context, category string) ([]model.StockItem, error) {
	return f.stock.ListByCategory(ctx, category)
}

func (f *StockFacade) Items(ctx context.Context) ([]model.StockItem, error) {
	return f.stock.ListAll(ctx)
}

func (f *StockFacade) ReplaceItem(ctx context.Context, item model.StockItem) (*model.StockItem, error) {
	return f.stock.Replace(ctx, item)
}

func (f *StockFacade) CheckStock(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	return f.stock.Check(ctx, items)
}

func (f *StockFacade) DecreaseStock(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	return f.stock.Decrease(ctx, items)
}

// OrderFacade aggregates the operations exposed by the order service.
type OrderFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
}

func NewOrderFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase) *OrderFacade {
	return &OrderFacade{auth: auth, orders: orders}
}

func (f *OrderFacade) ParseToken(token string) (*pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderFacade) PlaceOrder(ctx context.Context, userID int64, username string, items []model.LineItem) (*usecase.Placement, error) {
	return f.orders.Place(ctx, userID, username, items)
}

func (f *OrderFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *OrderFacade) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.GetByID(ctx, orderID)
}

func (f *OrderFacade) ReapStaged(ctx context.Context, olderThan time.Duration, limit int) (int64, error) {
	return f.orders.ReapStaged(ctx, olderThan, limit)
}
