package model

import "time"

// OrderStatus describes order visibility lifecycle.
type OrderStatus string

const (
	// OrderStatusStaged marks a row written before the remote stock
	// decrement confirmed. Staged orders are invisible to readers.
	OrderStatusStaged OrderStatus = "staged"
	// OrderStatusCreated marks a finalized, reader-visible order.
	OrderStatusCreated OrderStatus = "created"
)

// Order is a purchase order recorded by the order service. Username is a
// denormalized copy of the owner's display name taken at creation time.
type Order struct {
	ID        int64
	UserID    int64
	Username  string
	Items     []LineItem
	Status    OrderStatus
	CreatedAt time.Time
}
