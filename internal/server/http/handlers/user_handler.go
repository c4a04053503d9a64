package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/server/http/dto"
)

// UserHandler manages the user directory endpoints.
type UserHandler struct {
	facade UserAdminFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserAdminFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// GetOne handles GET /api/v1/user/getone?username=.
func (h *UserHandler) GetOne(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "username query parameter is required"})
		return
	}

	user, err := h.facade.User(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "User not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user))
}

// GetAll handles GET /api/v1/user/getall.
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.facade.Users(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}
	c.JSON(http.StatusOK, response)
}

// Update handles PUT /api/v1/user/update/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid user id"})
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	user, err := h.facade.UpdateUser(c.Request.Context(), id, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "User not found"})
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Username already exists"})
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "username and password must not be empty"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user))
}

// Delete handles DELETE /api/v1/user/delete?username=.
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "username query parameter is required"})
		return
	}

	if err := h.facade.DeleteUser(c.Request.Context(), username); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "User not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
