package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/domain/model"
	"github.com/tomasvalko/minimart/internal/server/http/dto"
)

// StockHandler manages warehouse endpoints of the stock service.
type StockHandler struct {
	facade StockFacade
}

// NewStockHandler constructs StockHandler.
func NewStockHandler(facade StockFacade) *StockHandler {
	return &StockHandler{facade: facade}
}

// GetOne handles GET /api/v1/stock/one/:id.
func (h *StockHandler) GetOne(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid item id"})
		return
	}

	item, err := h.facade.Item(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Item not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toStockItemResponse(*item))
}

// ByCategory handles GET /api/v1/stock?category=.
func (h *StockHandler) ByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "category query parameter is required"})
		return
	}

	items, err := h.facade.ItemsByCategory(c.Request.Context(), category)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "No items found in the specified category"})
		return
	}

	c.JSON(http.StatusOK, toStockItemResponses(items))
}

// All handles GET /api/v1/stock/all.
func (h *StockHandler) All(c *gin.Context) {
	items, err := h.facade.Items(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "No items found"})
		return
	}

	c.JSON(http.StatusOK, toStockItemResponses(items))
}

// Check handles POST /api/v1/stock/check.
func (h *StockHandler) Check(c *gin.Context) {
	var req dto.ItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	check, err := h.facade.CheckStock(c.Request.Context(), toLineItems(req.Items))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidItems) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "items must be non-empty with positive ids and amounts"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.CheckResponse{
		Available: check.Available,
		Missing:   toMissingItems(check.Missing),
	})
}

// Decrease handles POST /api/v1/stock/decrease. Partial outcomes are
// reported with status 200 and success=false so the caller can tell which
// lines were applied.
func (h *StockHandler) Decrease(c *gin.Context) {
	var req dto.ItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	result, err := h.facade.DecreaseStock(c.Request.Context(), toLineItems(req.Items))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidItems) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "items must be non-empty with positive ids and amounts"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.DecreaseResponse{
		Success:   result.Success,
		Decreased: result.Decreased,
		NotFound:  result.NotFound,
	})
}

// ReplaceOne handles POST /api/v1/stock/increase-one.
func (h *StockHandler) ReplaceOne(c *gin.Context) {
	var req dto.StockItemReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	item, err := h.facade.ReplaceItem(c.Request.Context(), model.StockItem{
		ID:       req.ID,
		Category: req.Category,
		Name:     req.Name,
		Amount:   req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Item not found"})
		case errors.Is(err, domainErrors.ErrInvalidItems):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid item fields"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toStockItemResponse(*item))
}

// Create handles POST /api/v1/stock/create.
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.StockItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	item, err := h.facade.CreateItem(c.Request.Context(), req.Category, req.Name, req.Amount)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidItems) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid item fields"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toStockItemResponse(*item))
}

func toStockItemResponses(items []model.StockItem) []dto.StockItemResponse {
	response := make([]dto.StockItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toStockItemResponse(item))
	}
	return response
}
