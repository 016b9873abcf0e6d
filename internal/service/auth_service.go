package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoapp/internal/models"
	"todoapp/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password so
	// responses don't reveal whether the username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("username or email already taken")
	// ErrInvalidPassword rejects a password the hasher cannot accept. It marks
	// caller mistakes, as opposed to storage failures.
	ErrInvalidPassword = errors.New("invalid password")
)

// SignUpParams is the registration profile plus the plaintext password.
type SignUpParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Role      string
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	tokens *TokenManager
}

func NewAuthService(users repository.Users, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// SignUp hashes the password and persists a new active user.
func (s *AuthService) SignUp(ctx context.Context, p SignUpParams) (int, error) {
	hash, err := hashPassword(p.Password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}

	id, err := s.users.Create(ctx, models.User{
		Email:          p.Email,
		Username:       p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		HashedPassword: hash,
		IsActive:       true,
		Role:           p.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateUser
		}
		return 0, err
	}
	return id, nil
}

// GenerateToken validates credentials and returns a signed access token.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}

	// A malformed stored digest also fails closed here.
	if err := verifyPassword(u.HashedPassword, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(u.Username, u.ID)
}

// ParseToken verifies an access token and returns the identity it encodes.
func (s *AuthService) ParseToken(accessToken string) (models.Identity, error) {
	return s.tokens.Verify(accessToken)
}

// ListUsers returns all registered users. The password hash never serializes.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash (constant-time inside bcrypt)
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
