package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/taskforge/task-manager-api/internal/config"
	"github.com/taskforge/task-manager-api/internal/database"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

// fixedNow is "today" for every service test.
var fixedNow = time.Date(2030, time.June, 15, 10, 30, 0, 0, time.UTC)

// serviceSuite wires every service against an in-memory database.
type serviceSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context

	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository

	auth     *AuthService
	users    *UserService
	tasks    *TaskService
	comments *CommentService

	admin   *models.User
	manager *models.User
	member  *models.User
	member2 *models.User
}

func (s *serviceSuite) SetupTest() {
	var err error
	s.db, err = database.OpenInMemory()
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.userRepo = repository.NewUserRepository(s.db)
	s.taskRepo = repository.NewTaskRepository(s.db)
	s.commentRepo = repository.NewCommentRepository(s.db)

	s.auth = NewAuthService(s.userRepo, nil, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	s.auth.now = func() time.Time { return fixedNow }
	s.users = NewUserService(s.userRepo, s.auth)
	s.tasks = NewTaskService(s.taskRepo, s.userRepo, nil)
	s.tasks.SetClock(func() time.Time { return fixedNow })
	s.comments = NewCommentService(s.commentRepo, s.taskRepo)

	s.admin = s.createUser("admin", models.RoleAdmin)
	s.manager = s.createUser("manager", models.RoleManager)
	s.member = s.createUser("member", models.RoleTeamMember)
	s.member2 = s.createUser("member2", models.RoleTeamMember)
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) createUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	s.Require().NoError(s.userRepo.Create(s.ctx, user))
	return user
}

func (s *serviceSuite) createTask(creator *models.User, name string, assignees ...uint64) *models.Task {
	task, err := s.tasks.CreateTask(s.ctx, creator, CreateTaskInput{
		Name:        name,
		AssigneeIDs: assignees,
	})
	s.Require().NoError(err)
	return task
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func datePtr(v string) *models.Date {
	d, err := models.ParseDate(v)
	if err != nil {
		panic(err)
	}
	return &d
}

func priorityPtr(p models.Priority) *models.Priority { return &p }
