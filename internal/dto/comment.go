package dto

import (
	"time"

	"github.com/taskforge/task-manager-api/internal/models"
)

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"comment_id"`
	TaskID    uint64    `json:"task_id"`
	CreatorID uint64    `json:"comment_creator"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

// UpdateCommentRequest is the body of PATCH /task-comments/:id
type UpdateCommentRequest struct {
	Comment Optional[string] `json:"comment"`
}

func ToCommentDTO(comment models.TaskComment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		CreatorID: comment.CreatorID,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func ToCommentDTOs(comments []models.TaskComment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}
