package service

import (
	"context"

	"todoapp/internal/models"
	"todoapp/internal/repository"
)

// Authorization covers the full credential lifecycle: registration, login
// (credential check + token issue) and per-request token authentication.
type Authorization interface {
	SignUp(ctx context.Context, p SignUpParams) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (models.Identity, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Todos exposes CRUD over to-do items, always scoped to the authenticated
// identity supplied by Authorization.
type Todos interface {
	List(ctx context.Context, ident models.Identity) ([]models.Todo, error)
	Get(ctx context.Context, ident models.Identity, id int) (models.Todo, error)
	Create(ctx context.Context, ident models.Identity, p TodoParams) (models.Todo, error)
	Update(ctx context.Context, ident models.Identity, id int, p TodoParams) (models.Todo, error)
	Delete(ctx context.Context, ident models.Identity, id int) error
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Todos Todos
}

// NewService wires the repository layer into concrete services. The token
// manager carries the process-wide signing key loaded at startup.
func NewService(repos *repository.Repository, tokens *TokenManager) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens),
		Todos:         NewTodoService(repos.Todos),
	}
}
