package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-manager-api/internal/dto"
	apierrors "github.com/taskforge/task-manager-api/internal/errors"
	"github.com/taskforge/task-manager-api/internal/services"
	"github.com/taskforge/task-manager-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the page of tasks visible to the current user.
// Supported query parameters: completed, task_assignee_id, due_date,
// sort_by (due_date|id|priority), sort_dir, limit and offset.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	params := services.ListTasksParams{
		Completed:     queryPtr(c, "completed"),
		DueDate:       queryPtr(c, "due_date"),
		SortBy:        c.Query("sort_by"),
		SortDirection: c.Query("sort_dir"),
		Limit:         pagination.Limit,
		Offset:        pagination.Offset,
	}
	// An empty task_assignee_id is treated as absent.
	if assignee := c.Query("task_assignee_id"); assignee != "" {
		params.AssigneeID = &assignee
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), user, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	next, previous := utils.PageLinks(c, pagination, total)
	c.JSON(http.StatusOK, dto.Page[dto.TaskDTO]{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  dto.ToTaskDTOs(tasks),
	})
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := idParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.CreateTaskInput
	if !bindJSON(c, &input) {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), user, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "created_task", dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input, msg := updateTaskInput(req)
	if msg != "" {
		apierrors.BadRequest(c, msg)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), user, taskID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "updated_task", dto.ToTaskDTO(*task))
}

// updateTaskInput converts the PATCH body. Non-nullable fields sent as null
// are reported through the returned message.
func updateTaskInput(req dto.UpdateTaskRequest) (services.UpdateTaskInput, string) {
	switch {
	case req.Name.Null:
		return services.UpdateTaskInput{}, "task_name may not be null."
	case req.Completed.Null:
		return services.UpdateTaskInput{}, "completed may not be null."
	case req.AssigneeIDs.Null:
		return services.UpdateTaskInput{}, "task_assignee may not be null."
	}

	input := services.UpdateTaskInput{
		Name:             req.Name.Ptr(),
		Description:      req.Description.Ptr(),
		ClearDescription: req.Description.Null,
		DueDate:          req.DueDate.Ptr(),
		ClearDueDate:     req.DueDate.Null,
		Priority:         req.Priority.Ptr(),
		ClearPriority:    req.Priority.Null,
		Completed:        req.Completed.Ptr(),
	}
	if req.AssigneeIDs.Set {
		input.AssigneeIDs = req.AssigneeIDs.Value
		if input.AssigneeIDs == nil {
			input.AssigneeIDs = []uint64{}
		}
	}

	return input, ""
}

// DeleteTask deletes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.taskService.DeleteTask(c.Request.Context(), user, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "deleted_task", dto.DeletedTaskDTO{
		TaskID:    deleted.TaskID,
		DeletedBy: deleted.DeletedBy,
	})
}

// GenerateTasks drafts tasks from free text. Nothing is persisted.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	drafts, err := h.taskService.GenerateDrafts(c.Request.Context(), user, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "tasks", drafts)
}
