package dto

import "time"

// OrderCreateRequest is the body of POST /order.
type OrderCreateRequest struct {
	Items []LineItem `json:"items" binding:"required"`
}

// OrderItemResponse is one ordered line.
type OrderItemResponse struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

// OrderResponse is the public representation of an order.
type OrderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Username  string              `json:"username"`
	Items     []OrderItemResponse `json:"items"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// PlacementResponse confirms a successfully placed order.
type PlacementResponse struct {
	OrderID  int64  `json:"order_id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
