package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/taskforge/task-manager-api/internal/errors"
	"github.com/taskforge/task-manager-api/internal/metrics"
	"github.com/taskforge/task-manager-api/internal/policy"
)

// RequireTaskAPIRole gates the task and comment routes on the user's role.
// It must run after RequireAuth.
func RequireTaskAPIRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		if !policy.CanUseTaskAPI(user.Role) {
			metrics.AuthorizationDeniedTotal.WithLabelValues("use_task_api").Inc()
			apierrors.Forbidden(c, "")
			return
		}

		c.Next()
	}
}
