package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-manager-api/internal/database"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/repository"
	"gorm.io/driver/mysql"
	"gorm.io/gorm/logger"
)

// newMockServices returns task and comment services backed by sqlmock.
func newMockServices(t *testing.T) (*TaskService, *CommentService, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.OpenWith(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), logger.Silent)
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return NewTaskService(taskRepo, userRepo, nil), NewCommentService(commentRepo, taskRepo), mock
}

func TestGetTask_StorageFailureIsInternal(t *testing.T) {
	tasks, _, mock := newMockServices(t)
	mock.ExpectQuery("SELECT (.+) FROM `tasks`").WillReturnError(errors.New("connection reset"))

	_, err := tasks.GetTask(context.Background(), 1)
	require.Error(t, err)

	var svcErr *Error
	assert.False(t, errors.As(err, &svcErr))
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to find task")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTasks_StorageFailureIsInternal(t *testing.T) {
	tasks, _, mock := newMockServices(t)
	mock.ExpectQuery("SELECT count").WillReturnError(errors.New("too many connections"))

	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	_, _, err := tasks.ListTasks(context.Background(), admin, ListTasksParams{})
	require.Error(t, err)

	var svcErr *Error
	assert.False(t, errors.As(err, &svcErr))
	assert.Contains(t, err.Error(), "failed to list tasks")
}

func TestDeleteComment_StorageFailureIsInternal(t *testing.T) {
	_, comments, mock := newMockServices(t)
	mock.ExpectQuery("SELECT (.+) FROM `task_comments`").WillReturnError(errors.New("broken pipe"))

	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	_, err := comments.DeleteComment(context.Background(), admin, 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
}
