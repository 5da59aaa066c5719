package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/dto"
	apierrors "github.com/taskforge/task-manager-api/internal/errors"
	"github.com/taskforge/task-manager-api/internal/middleware"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/services"
	"github.com/taskforge/task-manager-api/pkg/logger"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		_ = c.Error(err)
		log := logger.Get()
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unexpected error")
		apierrors.InternalError(c, "")
	}
}

// respondSuccess writes {"result":"success", <key>: payload, "status_code": status}.
func respondSuccess(c *gin.Context, status int, key string, payload any) {
	c.JSON(status, gin.H{
		"result":      dto.ResultSuccess,
		key:           payload,
		"status_code": status,
	})
}

// bindJSON decodes the request body or responds 400.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apierrors.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// idParam parses the :id path parameter. Non-numeric ids cannot exist.
func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user or responds 401.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return user, true
}

// queryPtr returns the query value, or nil when the key is absent.
func queryPtr(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok {
		return &value
	}
	return nil
}
