// Package policy decides what a user may see and change. Every function is
// pure: callers load the entities and pass them in.
package policy

import (
	"github.com/taskforge/task-manager-api/internal/models"
)

// Action names a role-level capability.
type Action string

const (
	ActionListAllTasks     Action = "list_all_tasks"
	ActionCreateTask       Action = "create_task"
	ActionDeleteOwnTask    Action = "delete_own_task"
	ActionCommentAnyTask   Action = "comment_any_task"
	ActionCommentOwnTask   Action = "comment_own_task"
	ActionDeleteAnyComment Action = "delete_any_comment"
	ActionListUsers        Action = "list_users"
	ActionUseTaskAPI       Action = "use_task_api"
)

// table is the role/action allow list. Anything absent is denied.
var table = map[models.Role]map[Action]bool{
	models.RoleAdmin: {
		ActionListAllTasks:     true,
		ActionCreateTask:       true,
		ActionDeleteOwnTask:    true,
		ActionCommentAnyTask:   true,
		ActionDeleteAnyComment: true,
		ActionListUsers:        true,
		ActionUseTaskAPI:       true,
	},
	models.RoleManager: {
		ActionCreateTask:     true,
		ActionDeleteOwnTask:  true,
		ActionCommentOwnTask: true,
		ActionListUsers:      true,
		ActionUseTaskAPI:     true,
	},
	models.RoleTeamMember: {
		ActionUseTaskAPI: true,
	},
}

// Allowed looks up (role, action) in the table.
func Allowed(role models.Role, action Action) bool {
	return table[role][action]
}

// ScopeKind tells which tasks a role may list.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeCreatedBy
	ScopeAssignedTo
)

// Scope is the subset of tasks a user may list.
type Scope struct {
	Kind   ScopeKind
	UserID uint64
}

// CanUseTaskAPI is the gate on every task and comment route.
func CanUseTaskAPI(role models.Role) bool {
	return Allowed(role, ActionUseTaskAPI)
}

func CanListAllTasks(role models.Role) bool {
	return Allowed(role, ActionListAllTasks)
}

// TaskListScope returns the scope of the task list for user.
func TaskListScope(user *models.User) Scope {
	switch user.Role {
	case models.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case models.RoleManager:
		return Scope{Kind: ScopeCreatedBy, UserID: user.ID}
	case models.RoleTeamMember:
		return Scope{Kind: ScopeAssignedTo, UserID: user.ID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

func CanCreateTask(role models.Role) bool {
	return Allowed(role, ActionCreateTask)
}

// CanDeleteTask requires the creator to hold a role that may delete its own tasks.
func CanDeleteTask(user *models.User, task *models.Task) bool {
	return isTaskCreator(user, task) && Allowed(user.Role, ActionDeleteOwnTask)
}

// CanUpdateTask only requires passing the task API gate.
func CanUpdateTask(user *models.User, _ *models.Task) bool {
	return CanUseTaskAPI(user.Role)
}

// CanCommentOnTask expects task.Assignees to be loaded.
func CanCommentOnTask(user *models.User, task *models.Task) bool {
	return Allowed(user.Role, ActionCommentAnyTask) ||
		(Allowed(user.Role, ActionCommentOwnTask) && isTaskCreator(user, task)) ||
		task.IsAssigned(user.ID)
}

func CanDeleteComment(user *models.User, comment *models.TaskComment) bool {
	return isCommentCreator(user, comment) || Allowed(user.Role, ActionDeleteAnyComment)
}

// CanUpdateComment has no admin override.
func CanUpdateComment(user *models.User, comment *models.TaskComment) bool {
	return isCommentCreator(user, comment)
}

// CommentListScope returns ScopeAll for admins and ScopeCreatedBy for the
// other known roles.
func CommentListScope(user *models.User) Scope {
	switch user.Role {
	case models.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case models.RoleManager, models.RoleTeamMember:
		return Scope{Kind: ScopeCreatedBy, UserID: user.ID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

func CanListUsers(role models.Role) bool {
	return Allowed(role, ActionListUsers)
}

func isTaskCreator(user *models.User, task *models.Task) bool {
	return user.ID == task.CreatorID
}

func isCommentCreator(user *models.User, comment *models.TaskComment) bool {
	return user.ID == comment.CreatorID
}
