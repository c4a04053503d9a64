package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[username]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Username: username, PasswordHash: passwordHash}
	s.Next++
	s.Users[username] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByUsername fetches user by name or returns not found.
func (s *UserRepositoryStub) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[username]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns every stored user.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.User, 0, len(s.ByID))
	for _, user := range s.ByID {
		result = append(result, *user)
	}
	return result, nil
}

// Update mutates stored fields when the pointers are non-nil.
func (s *UserRepositoryStub) Update(ctx context.Context, id int64, username, passwordHash *string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if username != nil {
		if other, exists := s.Users[*username]; exists && other.ID != id {
			return nil, domainErrors.ErrAlreadyExists
		}
		delete(s.Users, user.Username)
		user.Username = *username
		s.Users[*username] = user
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	return user, nil
}

// Delete removes user by name.
func (s *UserRepositoryStub) Delete(ctx context.Context, username string) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.Users[username]
	if !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Users, username)
	delete(s.ByID, user.ID)
	return nil
}

// OrderRepositoryStub keeps orders in-memory and records the staging
// lifecycle for assertions.
type OrderRepositoryStub struct {
	mu        sync.Mutex
	Orders    map[int64]*model.Order
	Next      int64
	StageErr  error
	FinalErr  error
	Discarded []int64
	Err       error
}

// NewOrderRepositoryStub constructs the stub with initialized state.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1}
}

// Stage records a staged order.
func (s *OrderRepositoryStub) Stage(ctx context.Context, userID int64, username string, items []model.LineItem) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StageErr != nil {
		return nil, s.StageErr
	}
	if s.Orders == nil {
		s.Orders = make(map[int64]*model.Order)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	order := &model.Order{
		ID:        s.Next,
		UserID:    userID,
		Username:  username,
		Items:     append([]model.LineItem(nil), items...),
		Status:    model.OrderStatusStaged,
		CreatedAt: time.Now(),
	}
	s.Next++
	s.Orders[order.ID] = order
	return order, nil
}

// Finalize flips a staged order to created.
func (s *OrderRepositoryStub) Finalize(ctx context.Context, orderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FinalErr != nil {
		return nil, s.FinalErr
	}
	order, ok := s.Orders[orderID]
	if !ok || order.Status != model.OrderStatusStaged {
		return nil, domainErrors.ErrNotFound
	}
	order.Status = model.OrderStatusCreated
	return order, nil
}

// Discard drops a staged order and records the call.
func (s *OrderRepositoryStub) Discard(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if order, ok := s.Orders[orderID]; ok && order.Status == model.OrderStatusStaged {
		delete(s.Orders, orderID)
	}
	s.Discarded = append(s.Discarded, orderID)
	return nil
}

// StagedCount reports how many staged orders remain.
func (s *OrderRepositoryStub) StagedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, order := range s.Orders {
		if order.Status == model.OrderStatusStaged {
			count++
		}
	}
	return count
}

// GetByID returns a created order by identifier.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	order, ok := s.Orders[orderID]
	if !ok || order.Status != model.OrderStatusCreated {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByUser returns created orders owned by the user.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID && order.Status == model.OrderStatusCreated {
			result = append(result, *order)
		}
	}
	return result, nil
}

// DeleteStaleStaged removes staged orders older than the provided age.
func (s *OrderRepositoryStub) DeleteStaleStaged(ctx context.Context, olderThan time.Duration, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	cutoff := time.Now().Add(-olderThan)
	var removed int64
	for id, order := range s.Orders {
		if removed >= int64(limit) {
			break
		}
		if order.Status == model.OrderStatusStaged && order.CreatedAt.Before(cutoff) {
			delete(s.Orders, id)
			removed++
		}
	}
	return removed, nil
}

// StockRepositoryStub provides controllable stock persistence behaviour.
type StockRepositoryStub struct {
	Items      map[int64]*model.StockItem
	Next       int64
	Err        error
	CheckFn    func(context.Context, []model.LineItem) (*model.StockCheck, error)
	DecreaseFn func(context.Context, []model.LineItem) (*model.StockDecrement, error)
}

// NewStockRepositoryStub constructs the stub with initialized maps.
func NewStockRepositoryStub() *StockRepositoryStub {
	return &StockRepositoryStub{Items: make(map[int64]*model.StockItem), Next: 1}
}

// Create stores a new item.
func (s *StockRepositoryStub) Create(ctx context.Context, category, name string, amount int64) (*model.StockItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Items == nil {
		s.Items = make(map[int64]*model.StockItem)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	item := &model.StockItem{ID: s.Next, Category: category, Name: name, Amount: amount}
	s.Next++
	s.Items[item.ID] = item
	return item, nil
}

// GetByID returns a stored item or not found.
func (s *StockRepositoryStub) GetByID(ctx context.Context, id int64) (*model.StockItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if item, ok := s.Items[id]; ok {
		return item, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCategory filters stored items by category.
func (s *StockRepositoryStub) ListByCategory(ctx context.Context, category string) ([]model.StockItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.StockItem
	for _, item := range s.Items {
		if item.Category == category {
			result = append(result, *item)
		}
	}
	return result, nil
}

// ListAll returns every stored item.
func (s *StockRepositoryStub) ListAll(ctx context.Context) ([]model.StockItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.StockItem, 0, len(s.Items))
	for _, item := range s.Items {
		result = append(result, *item)
	}
	return result, nil
}

// Replace overwrites a stored item.
func (s *StockRepositoryStub) Replace(ctx context.Context, item model.StockItem) (*model.StockItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.Items[item.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	*stored = item
	return stored, nil
}

// CheckAvailability reports shortfalls against stored amounts.
func (s *StockRepositoryStub) CheckAvailability(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, items)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	check := &model.StockCheck{Available: true, Missing: []model.MissingItem{}}
	for _, line := range items {
		stored, ok := s.Items[line.ID]
		var available int64
		if ok {
			available = stored.Amount
		}
		if !ok || available < line.Amount {
			check.Missing = append(check.Missing, model.MissingItem{ID: line.ID, Requested: line.Amount, Available: available})
		}
	}
	check.Available = len(check.Missing) == 0
	return check, nil
}

// Decrease applies each line independently against stored amounts.
func (s *StockRepositoryStub) Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	if s.DecreaseFn != nil {
		return s.DecreaseFn(ctx, items)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	result := &model.StockDecrement{Decreased: []int64{}, NotFound: []int64{}}
	for _, line := range items {
		stored, ok := s.Items[line.ID]
		if !ok || stored.Amount < line.Amount {
			result.NotFound = append(result.NotFound, line.ID)
			continue
		}
		stored.Amount -= line.Amount
		result.Decreased = append(result.Decreased, line.ID)
	}
	result.Success = len(result.NotFound) == 0
	return result, nil
}
