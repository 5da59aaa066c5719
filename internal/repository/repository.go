package repository

import (
	"context"

	"github.com/taskforge/task-manager-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user. Username and email uniqueness is enforced
	// by the store and surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, user *models.User) error

	// CreateWith creates a user and runs fn in the same transaction. An
	// error from fn rolls the insert back. fn may be nil.
	CreateWith(ctx context.Context, user *models.User, fn func(*models.User) error) error

	// Update persists the mutable columns of an existing user. A missing
	// user yields gorm.ErrRecordNotFound.
	Update(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns users ordered by ID together with the total count
	List(ctx context.Context, page Page) ([]models.User, int64, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task and its assignments in one transaction
	Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with its assignees loaded
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks matching a query together with the total count
	List(ctx context.Context, query TaskQuery) ([]models.Task, int64, error)

	// Update saves the task columns and, when assigneeIDs is non-nil,
	// replaces the assignee set, in one transaction. It never inserts: a
	// missing task yields gorm.ErrRecordNotFound
	Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// Delete deletes a task with its assignments and comments
	Delete(ctx context.Context, id uint64) error
}

// CommentRepository defines the interface for task comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.TaskComment) error

	// FindByID finds a comment by ID
	FindByID(ctx context.Context, id uint64) (*models.TaskComment, error)

	// List retrieves comments ordered by ID, optionally restricted to one creator
	List(ctx context.Context, filter CommentFilter) ([]models.TaskComment, error)

	// Update writes the comment text. A missing comment yields
	// gorm.ErrRecordNotFound.
	Update(ctx context.Context, comment *models.TaskComment) error

	// Delete deletes a comment
	Delete(ctx context.Context, id uint64) error
}

// CommentFilter holds filtering options for listing comments
type CommentFilter struct {
	CreatorID *uint64
}
