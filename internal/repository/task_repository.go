package repository

import (
	"context"
	"fmt"

	"github.com/taskforge/task-manager-api/internal/database"
	"github.com/taskforge/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its assignments
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		return assignUsers(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with its assignees loaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Assignees", orderUsersByID).
		First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the query with their assignees loaded
func (r *GormTaskRepository) List(ctx context.Context, q TaskQuery) ([]models.Task, int64, error) {
	if q.Empty {
		return []models.Task{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Task{})

	for _, f := range q.Filters {
		if f.Field == FieldAssignee {
			assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
				Select("1").
				Where("task_assignments.task_id = tasks.id").
				Where("task_assignments.user_id = ?", f.Value)
			query = query.Where("EXISTS (?)", assignmentSubQuery)
			continue
		}

		column, ok := taskColumns[f.Field]
		if !ok {
			return nil, 0, fmt.Errorf("unsupported filter field %q", f.Field)
		}
		query = query.Where(column+" = ?", f.Value)
	}

	// Count and Find must not share a statement.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, err := orderClause(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.
		Order(order).
		Scopes(database.Paginate(q.Page.Limit, q.Page.Offset)).
		Preload("Assignees", orderUsersByID).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update writes the mutable task columns and optionally replaces its
// assignees. A task deleted since it was loaded yields gorm.ErrRecordNotFound.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{ID: task.ID}).Updates(map[string]any{
			"name":        task.Name,
			"description": task.Description,
			"due_date":    task.DueDate,
			"priority":    task.Priority,
			"completed":   task.Completed,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if assigneeIDs == nil {
			return nil
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return assignUsers(tx, task.ID, assigneeIDs)
	})
}

// Delete deletes a task together with its comments and assignments
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}

// assignUsers inserts one assignment per user ID
func assignUsers(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return tx.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignments).Error
}

func orderUsersByID(db *gorm.DB) *gorm.DB {
	return db.Order("users.id ASC")
}

func orderClause(s Sort) (string, error) {
	if s.Field == "" {
		s = DefaultSort
	}

	column, ok := taskColumns[s.Field]
	if !ok {
		return "", fmt.Errorf("unsupported sort field %q", s.Field)
	}

	direction := "ASC"
	if s.Direction == SortDesc {
		direction = "DESC"
	}

	order := column + " " + direction
	if s.Field != FieldID {
		// Stable pages for ties
		order += ", tasks.id ASC"
	}

	return order, nil
}
