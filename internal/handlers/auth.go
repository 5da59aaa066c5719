package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/constants"
	"github.com/taskforge/task-manager-api/internal/dto"
	apierrors "github.com/taskforge/task-manager-api/internal/errors"
	"github.com/taskforge/task-manager-api/internal/middleware"
	"github.com/taskforge/task-manager-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a user, initializes the session and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":      dto.ResultSuccess,
		"user":        dto.ToUserDTO(*user),
		"token":       token,
		"status_code": http.StatusOK,
	})
}

// Logout clears the session and revokes the token used for the request.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := middleware.CurrentClaims(c); ok {
		if err := h.authService.Revoke(c.Request.Context(), claims); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":      dto.ResultSuccess,
		"message":     "Logged out successfully.",
		"status_code": http.StatusOK,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
