package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskforge/task-manager-api/internal/metrics"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/policy"
	"github.com/taskforge/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration and user lookups.
type UserService struct {
	userRepo repository.UserRepository
	auth     *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
	}
}

// RegisterInput is the open registration payload.
type RegisterInput struct {
	Username string      `json:"username" validate:"notblank,max=150"`
	Email    string      `json:"email" validate:"notblank,max=254,email,dotted_domain"`
	Role     models.Role `json:"role" validate:"notblank,role"`
	Password string      `json:"password" validate:"notblank"`
}

// SuperuserInput is the payload of the superuser command.
type SuperuserInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a user and issues its first token. The token is signed
// inside the insert transaction, so a signing failure leaves no user behind.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	var token string
	user, err := s.create(ctx, input, false, func(created *models.User) error {
		var err error
		token, err = s.auth.IssueToken(created)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CreateSuperuser creates an administrator flagged as superuser.
func (s *UserService) CreateSuperuser(ctx context.Context, input SuperuserInput) (*models.User, error) {
	return s.create(ctx, RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Role:     models.RoleAdmin,
		Password: input.Password,
	}, true, nil)
}

// PromoteToSuperuser flags an existing user as superuser. Superusers are
// always administrators.
func (s *UserService) PromoteToSuperuser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "user")
	}

	user.IsSuperuser = true
	user.Role = models.RoleAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, lookupError(err, ErrUserNotFound, "user to promote")
	}

	return user, nil
}

// ListUsers returns a page of users ordered by ID.
func (s *UserService) ListUsers(ctx context.Context, actor *models.User, page repository.Page) ([]models.User, int64, error) {
	if !policy.CanListUsers(actor.Role) {
		return nil, 0, forbidden("list_users", "You are not authorized to view user information.")
	}

	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a single user to a caller allowed to list users.
func (s *UserService) GetUser(ctx context.Context, actor *models.User, id uint64) (*models.User, error) {
	if !policy.CanListUsers(actor.Role) {
		return nil, forbidden("list_users", "You are not authorized to view user information.")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "user")
	}
	return user, nil
}

// create validates and inserts a user. then, when non-nil, runs in the insert
// transaction and rolls it back on error.
func (s *UserService) create(ctx context.Context, input RegisterInput, superuser bool, then func(*models.User) error) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		IsSuperuser:  superuser,
	}

	if err := s.userRepo.CreateWith(ctx, user, then); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationf("A user with that username or email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(user.Role)).Inc()

	return user, nil
}

func (s *UserService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return validationf("A user with that username already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return validationf("A user with that email already exists.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return nil
}
