package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"todoapp/internal/models"
	"todoapp/internal/repository"
)

// ErrTodoNotFound is returned when a todo id does not exist for the caller.
// A row owned by another user is indistinguishable from an absent one.
var ErrTodoNotFound = errors.New("todo not found")

// ValidationError rejects out-of-range input before any persistence call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Field length and range constraints for a todo.
const (
	titleMinLen = 3
	titleMaxLen = 100
	descMinLen  = 3
	descMaxLen  = 100
	priorityMin = 1
	priorityMax = 5
)

// TodoParams carries the four mutable fields of a todo.
type TodoParams struct {
	Title       string
	Description string
	Priority    int
	Complete    bool
}

// Lengths are counted in characters, not bytes.
func validateTodoParams(p TodoParams) error {
	if n := utf8.RuneCountInString(p.Title); n < titleMinLen || n > titleMaxLen {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("length must be %d-%d characters", titleMinLen, titleMaxLen)}
	}
	if n := utf8.RuneCountInString(p.Description); n < descMinLen || n > descMaxLen {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("length must be %d-%d characters", descMinLen, descMaxLen)}
	}
	if p.Priority < priorityMin || p.Priority > priorityMax {
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("must be %d-%d", priorityMin, priorityMax)}
	}
	return nil
}

// TodoService implements ownership-scoped CRUD: every operation attaches or
// filters by the authenticated identity's user id.
type TodoService struct {
	todos repository.Todos
}

func NewTodoService(todos repository.Todos) *TodoService {
	return &TodoService{todos: todos}
}

// List returns the caller's todos only.
func (s *TodoService) List(ctx context.Context, ident models.Identity) ([]models.Todo, error) {
	return s.todos.List(ctx, ident.UserID)
}

// Get fetches one of the caller's todos by id.
func (s *TodoService) Get(ctx context.Context, ident models.Identity, id int) (models.Todo, error) {
	t, err := s.todos.GetByID(ctx, ident.UserID, id)
	if err != nil {
		return models.Todo{}, err
	}
	if t == nil {
		return models.Todo{}, ErrTodoNotFound
	}
	return *t, nil
}

// Create validates the payload and persists a new todo owned by the caller.
func (s *TodoService) Create(ctx context.Context, ident models.Identity, p TodoParams) (models.Todo, error) {
	if err := validateTodoParams(p); err != nil {
		return models.Todo{}, err
	}

	t := models.Todo{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Complete:    p.Complete,
		OwnerID:     ident.UserID,
	}
	id, err := s.todos.Create(ctx, t)
	if err != nil {
		return models.Todo{}, err
	}
	t.ID = id
	return t, nil
}

// Update replaces all four mutable fields of the caller's todo.
func (s *TodoService) Update(ctx context.Context, ident models.Identity, id int, p TodoParams) (models.Todo, error) {
	if err := validateTodoParams(p); err != nil {
		return models.Todo{}, err
	}

	t := models.Todo{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Complete:    p.Complete,
		OwnerID:     ident.UserID,
	}
	updated, err := s.todos.Update(ctx, t)
	if err != nil {
		return models.Todo{}, err
	}
	if !updated {
		return models.Todo{}, ErrTodoNotFound
	}
	return t, nil
}

// Delete removes the caller's todo. Deletion is terminal.
func (s *TodoService) Delete(ctx context.Context, ident models.Identity, id int) error {
	deleted, err := s.todos.Delete(ctx, ident.UserID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}
