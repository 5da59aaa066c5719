package dto

import (
	"time"

	"github.com/taskforge/task-manager-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64           `json:"task_id"`
	Name        string           `json:"task_name"`
	Description *string          `json:"task_description"`
	DueDate     *models.Date     `json:"task_due_date"`
	CreatorID   uint64           `json:"task_creator"`
	AssigneeIDs []uint64         `json:"task_assignee"`
	Priority    *models.Priority `json:"priority"`
	Completed   bool             `json:"completed"`
	CreatedAt   time.Time        `json:"created"`
	UpdatedAt   time.Time        `json:"modified"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. Fields left out of the
// body are not changed.
type UpdateTaskRequest struct {
	Name        Optional[string]          `json:"task_name"`
	Description Optional[string]          `json:"task_description"`
	DueDate     Optional[models.Date]     `json:"task_due_date"`
	Priority    Optional[models.Priority] `json:"priority"`
	Completed   Optional[bool]            `json:"completed"`
	AssigneeIDs Optional[[]uint64]        `json:"task_assignee"`
}

// GenerateTasksRequest is the body of POST /tasks/generate
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required"`
}

// DeletedTaskDTO confirms a task deletion
type DeletedTaskDTO struct {
	TaskID    uint64 `json:"deleted_task_id"`
	DeletedBy string `json:"deleted_by"`
}

// ToTaskDTO converts a Task model to TaskDTO. Assignees must be preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		DueDate:     task.DueDate,
		CreatorID:   task.CreatorID,
		AssigneeIDs: task.AssigneeIDs(),
		Priority:    task.Priority,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
