package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/core"
	"campustrace-backend-go/internal/models"
)

// UserHandler handles registration, profile and sign-out endpoints.
type UserHandler struct {
	users core.UserService
	log   *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users core.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// InitializeUserProfile handles POST /users/initialize. The client calls it
// after every sign-in; the profile is written only the first time.
func (h *UserHandler) InitializeUserProfile(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	user, created, err := h.users.InitializeUser(c.Request.Context(), p)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	switch {
	case user == nil:
		c.JSON(http.StatusOK, SuccessResponse{Message: "Anonymous session, no profile stored"})
	case created:
		c.JSON(http.StatusCreated, user)
	default:
		c.JSON(http.StatusOK, user)
	}
}

// GetCurrentUserProfile handles GET /users/me
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), p.UID)
	if err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SignOut handles POST /auth/signout
func (h *UserHandler) SignOut(c *gin.Context) {
	p, ok := callerPrincipal(c)
	if !ok {
		return
	}
	if err := h.users.SignOut(c.Request.Context(), p.UID); err != nil {
		mapServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}
