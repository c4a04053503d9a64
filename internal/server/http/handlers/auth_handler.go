package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/tomasvalko/minimart/internal/domain/errors"
	"github.com/tomasvalko/minimart/internal/server/http/dto"
	"github.com/tomasvalko/minimart/internal/server/http/middleware"
)

// AuthHandler processes registration, login, and session endpoints.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/v1/user/add.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	user, err := h.facade.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "username and password must not be empty"})
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Username already exists"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toUserResponse(*user))
}

// Login handles POST /api/v1/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "invalid request body"})
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: "Incorrect username or password"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Login successful"})
}

// Logout handles POST /api/v1/user/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}

// Whoami handles GET /api/v1/user/whoami.
func (h *AuthHandler) Whoami(c *gin.Context) {
	claims := CurrentClaims(c)
	c.JSON(http.StatusOK, dto.WhoamiResponse{Username: claims.Username})
}
