package dto

import (
	"time"

	"github.com/taskforge/task-manager-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64      `json:"user_id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	DateJoined time.Time   `json:"date_joined"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		DateJoined: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
