package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taskforge/task-manager-api/internal/metrics"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/policy"
	"github.com/taskforge/task-manager-api/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	aiService *AIService
	now       func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		aiService: aiService,
		now:       time.Now,
	}
}

// SetClock replaces the clock used to decide what "today" is.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TaskService) today() models.Date {
	return models.NewDate(s.now().UTC())
}

// ListTasksParams holds the raw query parameters of a task listing.
// Nil pointers mean the parameter was absent.
type ListTasksParams struct {
	Completed     *string
	AssigneeID    *string
	DueDate       *string
	SortBy        string
	SortDirection string
	Limit, Offset int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string           `json:"task_name" validate:"notblank,max=200"`
	Description *string          `json:"task_description"`
	DueDate     *models.Date     `json:"task_due_date"`
	Priority    *models.Priority `json:"priority" validate:"omitempty,priority"`
	AssigneeIDs []uint64         `json:"task_assignee"`
	Completed   bool             `json:"completed"`
}

// UpdateTaskInput represents a partial update. Nil fields are left alone and
// the Clear flags null out optional columns.
type UpdateTaskInput struct {
	Name             *string          `json:"task_name" validate:"omitnil,notblank,max=200"`
	Description      *string          `json:"task_description"`
	ClearDescription bool             `json:"-"`
	DueDate          *models.Date     `json:"task_due_date"`
	ClearDueDate     bool             `json:"-"`
	Priority         *models.Priority `json:"priority" validate:"omitnil,priority"`
	ClearPriority    bool             `json:"-"`
	Completed        *bool            `json:"completed"`
	// AssigneeIDs replaces the assignee set when non-nil.
	AssigneeIDs []uint64 `json:"task_assignee"`
}

// DeletedTask confirms a deletion.
type DeletedTask struct {
	TaskID    uint64
	DeletedBy string
}

// ListTasks returns the page of tasks visible to user that matches params.
func (s *TaskService) ListTasks(ctx context.Context, user *models.User, params ListTasksParams) ([]models.Task, int64, error) {
	query, err := s.buildTaskQuery(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	scope := policy.TaskListScope(user)
	switch scope.Kind {
	case policy.ScopeAll:
	case policy.ScopeCreatedBy:
		query = query.Where(repository.FieldCreator, scope.UserID)
	case policy.ScopeAssignedTo:
		query = query.Where(repository.FieldAssignee, scope.UserID)
	default:
		query.Empty = true
	}

	tasks, total, err := s.taskRepo.List(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

func (s *TaskService) buildTaskQuery(ctx context.Context, params ListTasksParams) (repository.TaskQuery, error) {
	query := repository.TaskQuery{
		Sort: repository.DefaultSort,
		Page: repository.Page{Limit: params.Limit, Offset: params.Offset},
	}

	if params.Completed != nil {
		query = query.Where(repository.FieldComplete, strings.EqualFold(*params.Completed, "true"))
	}

	if params.AssigneeID != nil {
		assigneeID, err := strconv.ParseUint(*params.AssigneeID, 10, 64)
		if err != nil {
			return query, validationf("task_assignee_id must be a user id.")
		}
		if _, err := s.userRepo.FindByID(ctx, assigneeID); err != nil {
			return query, lookupError(err,
				validationf("User with task_assignee_id %d does not exist.", assigneeID), "assignee")
		}
		query = query.Where(repository.FieldAssignee, assigneeID)
	}

	if params.DueDate != nil {
		dueDate, err := models.ParseDate(*params.DueDate)
		if err != nil {
			return query, validationf("due_date must have format YYYY-MM-DD.")
		}
		query = query.Where(repository.FieldDueDate, dueDate)
	}

	// Unknown sort_by values keep the default order.
	var sortField repository.TaskField
	switch params.SortBy {
	case "due_date":
		sortField = repository.FieldDueDate
	case "id":
		sortField = repository.FieldID
	case "priority":
		sortField = repository.FieldPriority
	}
	if sortField != "" {
		query.Sort = repository.Sort{Field: sortField, Direction: repository.SortAsc}
		if params.SortDirection == "desc" {
			query.Sort.Direction = repository.SortDesc
		}
	}

	return query, nil
}

// GetTask returns a task with its assignees
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "task")
	}

	return task, nil
}

// CreateTask creates a new task owned by user
func (s *TaskService) CreateTask(ctx context.Context, user *models.User, input CreateTaskInput) (*models.Task, error) {
	if !policy.CanCreateTask(user.Role) {
		return nil, forbidden("create_task", "You are not authorized to create any task.")
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.validateDueDate(input.DueDate); err != nil {
		return nil, err
	}

	assigneeIDs := uniqueUint64(input.AssigneeIDs)
	if err := s.ensureUsersExist(ctx, assigneeIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     input.DueDate,
		CreatorID:   user.ID,
		Priority:    input.Priority,
		Completed:   input.Completed,
	}

	if err := s.taskRepo.Create(ctx, task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	metrics.TasksCreatedTotal.Inc()

	return s.GetTask(ctx, task.ID)
}

// UpdateTask applies a partial update. Any user past the role gate may update.
func (s *TaskService) UpdateTask(ctx context.Context, user *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdateTask(user, task) {
		return nil, forbidden("update_task", "You are not authorized to update this task.")
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.validateDueDate(input.DueDate); err != nil {
		return nil, err
	}

	var assigneeIDs []uint64
	if input.AssigneeIDs != nil {
		assigneeIDs = uniqueUint64(input.AssigneeIDs)
		if err := s.ensureUsersExist(ctx, assigneeIDs); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.ClearDescription {
		task.Description = nil
	} else if input.Description != nil {
		task.Description = input.Description
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearPriority {
		task.Priority = nil
	} else if input.Priority != nil {
		task.Priority = input.Priority
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(ctx, task, assigneeIDs); err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "task to update")
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask deletes a task and its comments if user may delete it
func (s *TaskService) DeleteTask(ctx context.Context, user *models.User, taskID uint64) (*DeletedTask, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanDeleteTask(user, task) {
		return nil, forbidden("delete_task", "You are not authorized to delete this task.")
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "task to delete")
	}

	metrics.TasksDeletedTotal.Inc()

	return &DeletedTask{TaskID: task.ID, DeletedBy: user.Username}, nil
}

// validateDueDate rejects dates before today. Nil is always valid.
func (s *TaskService) validateDueDate(due *models.Date) error {
	if due == nil {
		return nil
	}
	if due.Before(s.today()) {
		return validationf("task_due_date must not be in the past.")
	}
	return nil
}

// ensureUsersExist checks that every id belongs to a user. ids must be unique.
func (s *TaskService) ensureUsersExist(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	count, err := s.userRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify assignees: %w", err)
	}
	if int(count) != len(ids) {
		return validationf("task_assignee contains users that do not exist.")
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
