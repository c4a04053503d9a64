package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
	"github.com/tomasvalko/minimart/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool used by Storage. pgxmock implements it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

var _ repository.Factory = (*Storage)(nil)

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type userRepository struct {
	storage *Storage
}

type stockRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Stock() repository.StockRepository {
	return &stockRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS stock_items (
            id SERIAL PRIMARY KEY,
            category TEXT NOT NULL,
            name TEXT NOT NULL,
            amount BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL,
            username TEXT NOT NULL,
            items JSONB NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_stock_items_category ON stock_items(category)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_staged ON orders(created_at) WHERE status = 'staged'`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, username, passwordHash).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Username = username
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username=$1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, username, password_hash, created_at, updated_at FROM users WHERE id=$1`
	return r.scanOne(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	const query = `SELECT id, username, password_hash, created_at, updated_at FROM users ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, username, passwordHash *string) (*model.User, error) {
	const query = `UPDATE users
                   SET username = COALESCE($2, username),
                       password_hash = COALESCE($3, password_hash),
                       updated_at = NOW()
                   WHERE id=$1
                   RETURNING id, username, password_hash, created_at, updated_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id, username, passwordHash).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username=$1`
	tag, err := r.storage.pool.Exec(ctx, query, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- StockRepository implementation ---

func (r *stockRepository) Create(ctx context.Context, category, name string, amount int64) (*model.StockItem, error) {
	const query = `INSERT INTO stock_items (category, name, amount) VALUES ($1, $2, $3) RETURNING id`
	item := model.StockItem{Category: category, Name: name, Amount: amount}
	if err := r.storage.pool.QueryRow(ctx, query, category, name, amount).Scan(&item.ID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (*model.StockItem, error) {
	const query = `SELECT id, category, name, amount FROM stock_items WHERE id=$1`
	var item model.StockItem
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.Category, &item.Name, &item.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *stockRepository) ListByCategory(ctx context.Context, category string) ([]model.StockItem, error) {
	const query = `SELECT id, category, name, amount FROM stock_items WHERE category=$1 ORDER BY id`
	return r.list(ctx, query, category)
}

func (r *stockRepository) ListAll(ctx context.Context) ([]model.StockItem, error) {
	const query = `SELECT id, category, name, amount FROM stock_items ORDER BY id`
	return r.list(ctx, query)
}

func (r *stockRepository) list(ctx context.Context, query string, args ...any) ([]model.StockItem, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StockItem
	for rows.Next() {
		var item model.StockItem
		if err := rows.Scan(&item.ID, &item.Category, &item.Name, &item.Amount); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *stockRepository) Replace(ctx context.Context, item model.StockItem) (*model.StockItem, error) {
	const query = `UPDATE stock_items SET category=$2, name=$3, amount=$4 WHERE id=$1
                   RETURNING id, category, name, amount`
	var updated model.StockItem
	err := r.storage.pool.QueryRow(ctx, query, item.ID, item.Category, item.Name, item.Amount).
		Scan(&updated.ID, &updated.Category, &updated.Name, &updated.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// CheckAvailability reports, per requested line, whether the stored amount
// covers the request. Duplicate ids are checked line by line, not merged.
func (r *stockRepository) CheckAvailability(ctx context.Context, items []model.LineItem) (*model.StockCheck, error) {
	const query = `SELECT amount FROM stock_items WHERE id=$1`

	check := &model.StockCheck{Available: true, Missing: []model.MissingItem{}}
	for _, line := range items {
		var available int64
		err := r.storage.pool.QueryRow(ctx, query, line.ID).Scan(&available)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if errors.Is(err, pgx.ErrNoRows) || available < line.Amount {
			check.Missing = append(check.Missing, model.MissingItem{
				ID:        line.ID,
				Requested: line.Amount,
				Available: available,
			})
		}
	}
	check.Available = len(check.Missing) == 0
	return check, nil
}

// Decrease applies each line independently within one transaction. A line
// whose item is absent or underfunded lands in NotFound while the remaining
// lines are still decremented and committed.
func (r *stockRepository) Decrease(ctx context.Context, items []model.LineItem) (*model.StockDecrement, error) {
	const query = `UPDATE stock_items SET amount = amount - $2 WHERE id=$1 AND amount >= $2`

	result := &model.StockDecrement{Decreased: []int64{}, NotFound: []int64{}}
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, line := range items {
			tag, err := tx.Exec(ctx, query, line.ID, line.Amount)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				result.NotFound = append(result.NotFound, line.ID)
			} else {
				result.Decreased = append(result.Decreased, line.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Success = len(result.NotFound) == 0
	return result, nil
}

// --- OrderRepository implementation ---

// lineItemJSON is the stored representation of one order line.
type lineItemJSON struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

func encodeItems(items []model.LineItem) ([]byte, error) {
	encoded := make([]lineItemJSON, 0, len(items))
	for _, item := range items {
		encoded = append(encoded, lineItemJSON{ID: item.ID, Amount: item.Amount})
	}
	return json.Marshal(encoded)
}

func decodeItems(raw []byte) ([]model.LineItem, error) {
	var decoded []lineItemJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	items := make([]model.LineItem, 0, len(decoded))
	for _, item := range decoded {
		items = append(items, model.LineItem{ID: item.ID, Amount: item.Amount})
	}
	return items, nil
}

func (r *orderRepository) Stage(ctx context.Context, userID int64, username string, items []model.LineItem) (*model.Order, error) {
	encoded, err := encodeItems(items)
	if err != nil {
		return nil, err
	}

	const query = `INSERT INTO orders (user_id, username, items, status) VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at`
	order := model.Order{UserID: userID, Username: username, Items: items, Status: model.OrderStatusStaged}
	err = r.storage.pool.QueryRow(ctx, query, userID, username, encoded, model.OrderStatusStaged).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Finalize(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `UPDATE orders SET status=$2 WHERE id=$1 AND status=$3
                   RETURNING id, user_id, username, items, created_at`
	var (
		order model.Order
		raw   []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID, model.OrderStatusCreated, model.OrderStatusStaged).
		Scan(&order.ID, &order.UserID, &order.Username, &raw, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if order.Items, err = decodeItems(raw); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusCreated
	return &order, nil
}

func (r *orderRepository) Discard(ctx context.Context, orderID int64) error {
	const query = `DELETE FROM orders WHERE id=$1 AND status=$2`
	_, err := r.storage.pool.Exec(ctx, query, orderID, model.OrderStatusStaged)
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT id, user_id, username, items, status, created_at
                   FROM orders WHERE id=$1 AND status=$2`
	var (
		order model.Order
		raw   []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, orderID, model.OrderStatusCreated).
		Scan(&order.ID, &order.UserID, &order.Username, &raw, &order.Status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if order.Items, err = decodeItems(raw); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT id, user_id, username, items, status, created_at
                   FROM orders WHERE user_id=$1 AND status=$2 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID, model.OrderStatusCreated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var (
			order model.Order
			raw   []byte
		)
		if err := rows.Scan(&order.ID, &order.UserID, &order.Username, &raw, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		if order.Items, err = decodeItems(raw); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteStaleStaged removes staged rows abandoned by a crashed placement,
// oldest first. Returns the number of removed rows.
func (r *orderRepository) DeleteStaleStaged(ctx context.Context, olderThan time.Duration, limit int) (int64, error) {
	const query = `DELETE FROM orders WHERE id IN (
                       SELECT id FROM orders WHERE status=$1 AND created_at < $2
                       ORDER BY created_at LIMIT $3
                   )`
	cutoff := time.Now().Add(-olderThan)
	tag, err := r.storage.pool.Exec(ctx, query, model.OrderStatusStaged, cutoff, limit)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
