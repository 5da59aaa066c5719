package repository

import (
	"context"

	"github.com/taskforge/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *models.TaskComment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint64) (*models.TaskComment, error) {
	var comment models.TaskComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// List retrieves comments ordered by ID
func (r *GormCommentRepository) List(ctx context.Context, filter CommentFilter) ([]models.TaskComment, error) {
	query := r.db.WithContext(ctx).Model(&models.TaskComment{})
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}

	var comments []models.TaskComment
	if err := query.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update writes the comment text. A comment deleted since it was loaded,
// directly or with its task, yields gorm.ErrRecordNotFound.
func (r *GormCommentRepository) Update(ctx context.Context, comment *models.TaskComment) error {
	result := r.db.WithContext(ctx).
		Model(&models.TaskComment{ID: comment.ID}).
		Update("comment", comment.Comment)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete deletes a comment
func (r *GormCommentRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskComment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
