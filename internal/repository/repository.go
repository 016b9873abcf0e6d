package repository

import (
	"context"
	"database/sql"
	"errors"

	"todoapp/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (username or email already taken).
var ErrDuplicate = errors.New("duplicate record")

type Users interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// Todos is owner-scoped row access: every read and write carries the owning
// user's id, so one user can never see or touch another user's rows.
type Todos interface {
	List(ctx context.Context, ownerID int) ([]models.Todo, error)
	GetByID(ctx context.Context, ownerID, id int) (*models.Todo, error)
	Create(ctx context.Context, t models.Todo) (int, error)
	Update(ctx context.Context, t models.Todo) (bool, error)
	Delete(ctx context.Context, ownerID, id int) (bool, error)
}

type Repository struct {
	Users Users
	Todos Todos
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Todos: NewTodoRepository(db),
	}
}
