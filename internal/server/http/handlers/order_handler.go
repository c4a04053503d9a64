package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/v1/order.
func (h *OrderHandler) Place(c *gin.Context) {
	claims := CurrentClaims(c)

	var req dto.OrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	placement, err := h.facade.PlaceOrder(c.Request.Context(), claims.UserID, claims.Username, toLineItems(req.Items))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidItems):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "items must be non-empty with positive ids and amounts"})
		case errors.Is(err, domainErrors.ErrDecrementFailed):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Detail: "Failed to decrease stock"})
		case errors.Is(err, domainErrors.ErrStockUnavailable):
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Detail: err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	// Insufficient stock is a normal negative outcome carrying the
	// authority's shortfall report, not an error.
	if !placement.Placed() {
		c.JSON(http.StatusConflict, dto.CheckResponse{
			Available: false,
			Missing:   toMissingItems(placement.Missing),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.PlacementResponse{
		OrderID:  placement.Order.ID,
		UserID:   placement.Order.UserID,
		Username: placement.Order.Username,
	})
}

// ListMine handles GET /api/v1/order/me.
func (h *OrderHandler) ListMine(c *gin.Context) {
	claims := CurrentClaims(c)

	orders, err := h.facade.Orders(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, response)
}

// GetByID handles GET /api/v1/order/:id.
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid order id"})
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Order not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}
