package services

import (
	"context"
	"fmt"

	"github.com/taskforge/task-manager-api/internal/metrics"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/policy"
	"github.com/taskforge/task-manager-api/internal/repository"
)

// CommentService handles task comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// CreateCommentInput represents input for commenting on a task
type CreateCommentInput struct {
	TaskID  uint64 `json:"task_id" validate:"required"`
	Comment string `json:"comment" validate:"notblank"`
}

// UpdateCommentInput carries the only mutable field of a comment
type UpdateCommentInput struct {
	Comment *string `json:"comment" validate:"omitnil,notblank"`
}

// DeletedComment confirms a deletion.
type DeletedComment struct {
	Comment   string
	DeletedBy string
}

// ListComments returns the comments user may see, ordered by ID
func (s *CommentService) ListComments(ctx context.Context, user *models.User) ([]models.TaskComment, error) {
	var filter repository.CommentFilter

	scope := policy.CommentListScope(user)
	switch scope.Kind {
	case policy.ScopeAll:
	case policy.ScopeCreatedBy:
		filter.CreatorID = &scope.UserID
	default:
		return []models.TaskComment{}, nil
	}

	comments, err := s.commentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// GetComment returns a single comment
func (s *CommentService) GetComment(ctx context.Context, commentID uint64) (*models.TaskComment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, lookupError(err, ErrCommentNotFound, "comment")
	}
	return comment, nil
}

// CreateComment adds a comment by user to an existing task
func (s *CommentService) CreateComment(ctx context.Context, user *models.User, input CreateCommentInput) (*models.TaskComment, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, input.TaskID)
	if err != nil {
		return nil, lookupError(err,
			validationf("Invalid task_id: task %d does not exist.", input.TaskID), "task")
	}

	if !policy.CanCommentOnTask(user, task) {
		return nil, forbidden("create_comment", "You are not authorized to comment on this task.")
	}

	comment := &models.TaskComment{
		TaskID:    task.ID,
		CreatorID: user.ID,
		Comment:   input.Comment,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	metrics.CommentsCreatedTotal.Inc()

	return comment, nil
}

// UpdateComment changes the text of a comment owned by user
func (s *CommentService) UpdateComment(ctx context.Context, user *models.User, commentID uint64, input UpdateCommentInput) (*models.TaskComment, error) {
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdateComment(user, comment) {
		return nil, forbidden("update_comment", "You are not authorized to update this task comment.")
	}

	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Comment == nil {
		return comment, nil
	}

	comment.Comment = *input.Comment
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, lookupError(err, ErrCommentNotFound, "comment to update")
	}

	return comment, nil
}

// DeleteComment deletes a comment if user may delete it
func (s *CommentService) DeleteComment(ctx context.Context, user *models.User, commentID uint64) (*DeletedComment, error) {
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !policy.CanDeleteComment(user, comment) {
		return nil, forbidden("delete_comment", "You are not authorized to delete this task comment.")
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, lookupError(err, ErrCommentNotFound, "comment to delete")
	}

	return &DeletedComment{
		Comment:   comment.Comment,
		DeletedBy: user.Username,
	}, nil
}
