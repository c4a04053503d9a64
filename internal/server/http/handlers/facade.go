package handlers

import (
	"context"

	"github.com/tomasvalko/minimart/internal/domain/model"
	pkgAuth "github.com/tomasvalko/minimart/internal/pkg/auth"
	"github.com/tomasvalko/minimart/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	ParseToken(token string) (*pkgAuth.Claims, error)
}

// UserAdminFacade covers user directory management.
type UserAdminFacade interface {
	User(ctx context.Context, username string) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id int64, username, password *string) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error
}

// UserFacade aggregates the full surface of the user service.
type UserFacade interface {
	AuthFacade
	UserAdminFacade
}

// StockFacade encapsulates stock operations exposed via HTTP.
type StockFacade interface {
	CreateItem(ctx context.Context, category, name string, amount int64) (*model.StockItem, error)
	Item(ctx context.Context, id int64) (*model.StockItem, error)
	ItemsByCategory(ctx context.Context, category string) ([]model.StockItem, error)
	Items(ctx context.Context) ([]model.StockItem, error)
	ReplaceItem(ctx context.Context, item model.StockItem) (*model.StockItem, error)
	CheckStock(ctx context.Context, items []model.LineItem) (*model.StockCheck, error)
	DecreaseStock(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	ParseToken(token string) (*pkgAuth.Claims, error)
	PlaceOrder(ctx context.Context, userID int64, username string, items []model.LineItem) (*usecase.Placement, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, orderID int64) (*model.Order, error)
}
