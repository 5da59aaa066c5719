package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/dto"
	"github.com/taskforge/task-manager-api/internal/repository"
	"github.com/taskforge/task-manager-api/internal/services"
	"github.com/taskforge/task-manager-api/internal/utils"
)

// UserHandler serves /users.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns a page of users, or a single user when ?id= is given.
// Only admins and managers may list users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if rawID := c.Query("id"); rawID != "" {
		// A malformed id parses to 0, which never matches a user.
		id, _ := strconv.ParseUint(rawID, 10, 64)
		found, err := h.userService.GetUser(c.Request.Context(), user, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToUserDTO(*found))
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), user, repository.Page{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	next, previous := utils.PageLinks(c, params, total)
	c.JSON(http.StatusOK, dto.Page[dto.UserDTO]{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  dto.ToUserDTOs(users),
	})
}

// Register creates a user. Registration is open.
func (h *UserHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, token, err := h.userService.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":       dto.ResultSuccess,
		"created_user": dto.ToUserDTO(*user),
		"token":        token,
		"status_code":  http.StatusCreated,
	})
}
