package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/constants"
	apierrors "github.com/taskforge/task-manager-api/internal/errors"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/services"
	"github.com/taskforge/task-manager-api/pkg/logger"
)

// Authenticator resolves credentials to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *services.Claims, error)
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// RequireAuth authenticates the request with an "Authorization: Bearer" or
// "Authorization: Token" header, falling back to the session cookie.
// The user is loaded from the store on every request.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			user   *models.User
			claims *services.Claims
			err    error
		)

		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := parseAuthorization(header)
			if !ok {
				apierrors.Unauthorized(c, "Invalid authorization header.")
				return
			}
			user, claims, err = auth.Authenticate(c.Request.Context(), token)
		} else {
			userID, ok := sessionUserID(sessions.Default(c))
			if !ok {
				apierrors.Unauthorized(c, "")
				return
			}
			user, err = auth.GetUser(c.Request.Context(), userID)
		}

		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, err.Error())
				return
			}
			log := logger.Get()
			log.Error().Err(err).Msg("authentication failed")
			apierrors.InternalError(c, "")
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		if claims != nil {
			c.Set(constants.ContextKeyClaims, claims)
		}
		c.Next()
	}
}

func parseAuthorization(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func sessionUserID(session sessions.Session) (uint64, bool) {
	switch v := session.Get(constants.ContextKeyUserID).(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint64)
	return id, ok
}

// CurrentUser retrieves the authenticated user from context
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// CurrentClaims returns the verified token of the request, if it used one
func CurrentClaims(c *gin.Context) (*services.Claims, bool) {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.Claims)
	return claims, ok
}
