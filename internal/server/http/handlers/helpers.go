package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tomasvalko/minimart/internal/domain/model"
	pkgAuth "github.com/tomasvalko/minimart/internal/pkg/auth"
	"github.com/tomasvalko/minimart/internal/server/http/dto"
	"github.com/tomasvalko/minimart/internal/server/http/middleware"
)

// CurrentClaims extracts the authenticated identity from context.
func CurrentClaims(c *gin.Context) pkgAuth.Claims {
	val, ok := c.Get(middleware.ClaimsContextKey)
	if !ok {
		return pkgAuth.Claims{}
	}
	claims, _ := val.(pkgAuth.Claims)
	return claims
}

func toLineItems(items []dto.LineItem) []model.LineItem {
	result := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		result = append(result, model.LineItem{ID: item.ItemID(), Amount: item.Amount})
	}
	return result
}

func toUserResponse(user model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toStockItemResponse(item model.StockItem) dto.StockItemResponse {
	return dto.StockItemResponse{
		ID:       item.ID,
		Category: item.Category,
		Name:     item.Name,
		Amount:   item.Amount,
	}
}

func toMissingItems(missing []model.MissingItem) []dto.MissingItemResponse {
	result := make([]dto.MissingItemResponse, 0, len(missing))
	for _, m := range missing {
		result = append(result, dto.MissingItemResponse{ID: m.ID, Requested: m.Requested, Available: m.Available})
	}
	return result
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{ID: item.ID, Amount: item.Amount})
	}
	return dto.OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Username:  order.Username,
		Items:     items,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}
