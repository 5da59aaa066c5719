package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskforge/task-manager-api/internal/config"
	"github.com/taskforge/task-manager-api/internal/models"
	"github.com/taskforge/task-manager-api/internal/repository"
	"github.com/taskforge/task-manager-api/internal/tokens"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	denylist tokens.Denylist
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService. denylist may be nil, in which
// case logout cannot revoke tokens.
func NewAuthService(userRepo repository.UserRepository, denylist tokens.Denylist, cfg config.AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		denylist: denylist,
		secret:   []byte(cfg.JWTSecret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Claims are the parts of a verified token the API cares about.
type Claims struct {
	UserID    uint64
	TokenID   string
	ExpiresAt time.Time
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken signs an HS256 token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(user.ID, 10),
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature, expiry and revocation state of a token.
func (s *AuthService) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	tokenID, _ := claims["jti"].(string)

	if s.denylist != nil && tokenID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return &Claims{
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: exp.Time,
	}, nil
}

// Authenticate resolves a token to its user. The user is read from the store
// so role changes apply to tokens issued earlier.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, *Claims, error) {
	claims, err := s.ParseToken(ctx, tokenString)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}

	return user, claims, nil
}

// Revoke denylists the token until it expires.
func (s *AuthService) Revoke(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims == nil || claims.TokenID == "" {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// GetUser retrieves the user behind a session or token.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrInvalidToken, "user")
	}

	return user, nil
}
