package test

import (
	"context"
	"sync/atomic"

	"github.com/tomasvalko/minimart/internal/domain/model"
	pkgAuth "github.com/tomasvalko/minimart/internal/pkg/auth"
	"github.com/tomasvalko/minimart/internal/usecase"
)

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (*model.User, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (*pkgAuth.Claims, error)
}

// Register delegates to provided function or returns a default user.
func (s AuthFacadeStub) Register(ctx context.Context, username, password string) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, username, password)
	}
	return &model.User{ID: 1, Username: username}, nil
}

// Authenticate delegates to provided function or returns a fixed token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, username, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, username, password)
	}
	return "session-token", nil
}

// ParseToken resolves tokens to a default identity.
func (s AuthFacadeStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.Claims{UserID: 1, Username: "user"}, nil
}

// UserAdminFacadeStub simulates user directory operations.
type UserAdminFacadeStub struct {
	UserFn   func(context.Context, string) (*model.User, error)
	UsersFn  func(context.Context) ([]model.User, error)
	UpdateFn func(context.Context, int64, *string, *string) (*model.User, error)
	DeleteFn func(context.Context, string) error
}

func (s UserAdminFacadeStub) User(ctx context.Context, username string) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, username)
	}
	return &model.User{ID: 1, Username: username}, nil
}

func (s UserAdminFacadeStub) Users(ctx context.Context) ([]model.User, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx)
	}
	return []model.User{{ID: 1, Username: "user"}}, nil
}

func (s UserAdminFacadeStub) UpdateUser(ctx context.Context, id int64, username, password *string) (*model.User, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, username, password)
	}
	return &model.User{ID: id, Username: "user"}, nil
}

func (s UserAdminFacadeStub) DeleteUser(ctx context.Context, username string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, username)
	}
	return nil
}

// UserFacadeStub aggregates auth and admin stubs behind one value.
type UserFacadeStub struct {
	AuthFacadeStub
	UserAdminFacadeStub
}

// StockFacadeStub simulates warehouse operations.
type StockFacadeStub struct {
	CreateFn   func(context.Context, string, string, int64) (*model.StockItem, error)
	ItemFn     func(context.Context, int64) (*model.StockItem, error)
	ByCatFn    func(context.Context, string) ([]model.StockItem, error)
	ItemsFn    func(context.Context) ([]model.StockItem, error)
	ReplaceFn  func(context.Context, model.StockItem) (*model.StockItem, error)
	CheckFn    func(context.Context, []model.LineItem) (*model.StockCheck, error)
	DecreaseFn func(context.Context, []model.LineItem) (*model.StockDecrement, error)
}

func (s StockFacadeStub) CreateItem(ctx context.Context, category, name string, amount int64) (*model.StockItem, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, category, name, amount)
	}
	return &model.StockItem{ID: 1, Category: category, Name: name, Amount: amount}, nil
}

func (s StockFacadeStub) Item(ctx context.Context, id int64) (*model.StockItem, error) {
	if s.ItemFn != nil {
		return s.ItemFn(ctx, id)
	}
	return &model.StockItem{ID: id, Category: "default", Name: "item", Amount: 1}, nil
}

func (s StockFacadeStub) ItemsByCategory(ctx context.Context, category string) ([]model.StockItem, error) {
	if s.ByCatFn != nil {
		return s.ByCatFn(ctx, category)
	}
	return []model.StockItem{{ID: 1, Category: category, Name: "item", Amount: 1}}, nil
}

func (s StockFacadeStub) Items(ctx context.Context) ([]model.StockItem, error) {
	if s.ItemsFn != nil {
		return s.ItemsFn(ctx)
	}
	return []model.StockItem{{ID: 1, Category: "default", Name: "item", Amount: 1}}, nil
}

func (s StockFacadeStub) ReplaceItem(ctx context.Context, item model.StockItem) (*model.StockItem, error) {
	if s.ReplaceFn != nil {
		return s.ReplaceFn(ctx, item)
	}
	return &item, nil
}

func (s StockFacadeStub) CheckStock(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, items)
	}
	return &model.StockCheck{Available: true, Missing: []model.MissingItem{}}, nil
}

func (s StockFacadeStub) DecreaseStock(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	if s.DecreaseFn != nil {
		return s.DecreaseFn(ctx, items)
	}
	decreased := make([]int64, 0, len(items))
	for _, item := range items {
		decreased = append(decreased, item.ID)
	}
	return &model.StockDecrement{Success: true, Decreased: decreased, NotFound: []int64{}}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints and
// counts invocations so tests can assert that no calls leaked through
// failed authentication.
type OrderFacadeStub struct {
	ParseFn  func(string) (*pkgAuth.Claims, error)
	PlaceFn  func(context.Context, int64, string, []model.LineItem) (*usecase.Placement, error)
	OrdersFn func(context.Context, int64) ([]model.Order, error)
	OrderFn  func(context.Context, int64) (*model.Order, error)

	PlaceCalls  int32
	OrdersCalls int32
	OrderCalls  int32
}

func (s *OrderFacadeStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.Claims{UserID: 1, Username: "user"}, nil
}

func (s *OrderFacadeStub) PlaceOrder(ctx context.Context, userID int64, username string, items []model.LineItem) (*usecase.Placement, error) {
	atomic.AddInt32(&s.PlaceCalls, 1)
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, username, items)
	}
	return &usecase.Placement{Order: &model.Order{ID: 1, UserID: userID, Username: username, Items: items, Status: model.OrderStatusCreated}}, nil
}

func (s *OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	atomic.AddInt32(&s.OrdersCalls, 1)
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: 1, UserID: userID, Status: model.OrderStatusCreated}}, nil
}

func (s *OrderFacadeStub) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	atomic.AddInt32(&s.OrderCalls, 1)
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, UserID: 1, Status: model.OrderStatusCreated}, nil
}

// StockAuthorityStub simulates the remote stock service from the order
// workflow's point of view and counts remote calls.
type StockAuthorityStub struct {
	CheckFn    func(context.Context, []model.LineItem) (*model.StockCheck, error)
	DecreaseFn func(context.Context, []model.LineItem) (*model.StockDecrement, error)

	CheckCalls    int32
	DecreaseCalls int32
}

func (s *StockAuthorityStub) Check(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	atomic.AddInt32(&s.CheckCalls, 1)
	if s.CheckFn != nil {
		return s.CheckFn(ctx, items)
	}
	return &model.StockCheck{Available: true, Missing: []model.MissingItem{}}, nil
}

func (s *StockAuthorityStub) Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	atomic.AddInt32(&s.DecreaseCalls, 1)
	if s.DecreaseFn != nil {
		return s.DecreaseFn(ctx, items)
	}
	decreased := make([]int64, 0, len(items))
	for _, item := range items {
		decreased = append(decreased, item.ID)
	}
	return &model.StockDecrement{Success: true, Decreased: decreased, NotFound: []int64{}}, nil
}

// HealthPingerStub reports a configurable storage health state.
type HealthPingerStub struct {
	Err error
}

func (s HealthPingerStub) HealthCheck(context.Context) error {
	return s.Err
}
