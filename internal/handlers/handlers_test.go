package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/taskforge/task-manager-api/internal/config"
	"github.com/taskforge/task-manager-api/internal/database"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/repository"
	"github.com/taskforge/task-manager-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// today for every handler test
var fixedNow = time.Date(2030, time.June, 15, 10, 30, 0, 0, time.UTC)

const testPassword = "supersecret"

// memoryDenylist keeps revoked token ids in memory.
type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// handlerSuite serves the full router against an in-memory database.
type handlerSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	denylist *memoryDenylist

	auth     *services.AuthService
	tasks    *services.TaskService
	comments *services.CommentService

	admin   *models.User
	manager *models.User
	member  *models.User
	member2 *models.User

	tokens map[uint64]string
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var err error
	s.db, err = database.OpenInMemory()
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)

	userRepo := repository.NewUserRepository(s.db)
	taskRepo := repository.NewTaskRepository(s.db)
	commentRepo := repository.NewCommentRepository(s.db)

	s.denylist = &memoryDenylist{revoked: map[string]time.Duration{}}
	s.auth = services.NewAuthService(userRepo, s.denylist, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	s.tasks = services.NewTaskService(taskRepo, userRepo, nil)
	s.tasks.SetClock(func() time.Time { return fixedNow })
	s.comments = services.NewCommentService(commentRepo, taskRepo)

	s.router = NewRouter(RouterDeps{
		Logger:         zerolog.Nop(),
		SessionStore:   cookie.NewStore([]byte("secret")),
		DB:             sqlDB,
		AuthService:    s.auth,
		UserService:    services.NewUserService(userRepo, s.auth),
		TaskService:    s.tasks,
		CommentService: s.comments,
	})

	s.tokens = map[uint64]string{}
	s.admin = s.createUser("admin", models.RoleAdmin)
	s.manager = s.createUser("manager", models.RoleManager)
	s.member = s.createUser("member", models.RoleTeamMember)
	s.member2 = s.createUser("member2", models.RoleTeamMember)
}

func (s *handlerSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *handlerSuite) createUser(username string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	s.Require().NoError(err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	s.Require().NoError(s.db.Create(user).Error)

	token, err := s.auth.IssueToken(user)
	s.Require().NoError(err)
	s.tokens[user.ID] = token

	return user
}

func (s *handlerSuite) createTask(creator *models.User, name string, assignees ...uint64) *models.Task {
	task, err := s.tasks.CreateTask(context.Background(), creator, services.CreateTaskInput{
		Name:        name,
		AssigneeIDs: assignees,
	})
	s.Require().NoError(err)
	return task
}

func (s *handlerSuite) createComment(creator *models.User, taskID uint64, text string) *models.TaskComment {
	comment, err := s.comments.CreateComment(context.Background(), creator, services.CreateCommentInput{
		TaskID:  taskID,
		Comment: text,
	})
	s.Require().NoError(err)
	return comment
}

// request sends body (a string is sent verbatim, anything else as JSON)
// authenticated as user with a bearer token. A nil user sends no credentials.
func (s *handlerSuite) request(method, path string, body any, user *models.User) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+s.tokens[user.ID])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

// envelope is the generic shape of success and error responses.
type envelope struct {
	Result     string `json:"result"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (s *handlerSuite) assertError(w *httptest.ResponseRecorder, status int, code string) envelope {
	s.Require().Equal(status, w.Code, w.Body.String())

	var env envelope
	s.decode(w, &env)
	s.Equal("error", env.Result)
	s.Equal(code, env.Code)
	s.Equal(status, env.StatusCode)
	return env
}

func (s *handlerSuite) taskCount() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func (s *handlerSuite) commentCount() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.TaskComment{}).Count(&count).Error)
	return count
}
