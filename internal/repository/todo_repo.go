package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoapp/internal/models"
)

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

var _ Todos = (*TodoRepository)(nil)

const (
	insertTodoSQL = `INSERT INTO todos (title, description, priority, complete, owner_id)
VALUES (?, ?, ?, ?, ?)`
	selectTodoByIDSQL = `SELECT id, title, description, priority, complete, owner_id
FROM todos WHERE id = ? AND owner_id = ?`
	selectTodosByOwnerSQL = `SELECT id, title, description, priority, complete, owner_id
FROM todos WHERE owner_id = ? ORDER BY id`
	updateTodoSQL = `UPDATE todos SET title = ?, description = ?, priority = ?, complete = ?
WHERE id = ? AND owner_id = ?`
	deleteTodoSQL = `DELETE FROM todos WHERE id = ? AND owner_id = ?`
)

// List returns the owner's todos ordered by id.
func (r *TodoRepository) List(ctx context.Context, ownerID int) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, selectTodosByOwnerSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select todos for owner %d: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete, &t.OwnerID); err != nil {
			return nil, fmt.Errorf("scan todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todo rows: %w", err)
	}
	return todos, nil
}

// GetByID fetches one of the owner's todos. Returns (nil, nil) when the row is
// absent or belongs to someone else.
func (r *TodoRepository) GetByID(ctx context.Context, ownerID, id int) (*models.Todo, error) {
	var t models.Todo
	err := r.db.QueryRowContext(ctx, selectTodoByIDSQL, id, ownerID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete, &t.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select todo %d: %w", id, err)
	}
	return &t, nil
}

// Create inserts a new todo inside its own transaction and returns the new id.
// The transaction rolls back on any exit path that did not commit.
func (r *TodoRepository) Create(ctx context.Context, t models.Todo) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create todo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertTodoSQL,
		t.Title, t.Description, t.Priority, t.Complete, t.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("insert todo for owner %d: %w", t.OwnerID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for todo: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create todo: %w", err)
	}
	return int(lastID), nil
}

// Update replaces all mutable fields of the owner's todo. The bool reports
// whether a row was actually updated.
func (r *TodoRepository) Update(ctx context.Context, t models.Todo) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateTodoSQL,
		t.Title, t.Description, t.Priority, t.Complete, t.ID, t.OwnerID)
	if err != nil {
		return false, fmt.Errorf("update todo %d: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for todo %d: %w", t.ID, err)
	}
	return n > 0, nil
}

// Delete removes the owner's todo. The bool reports whether a row existed.
func (r *TodoRepository) Delete(ctx context.Context, ownerID, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteTodoSQL, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for todo %d: %w", id, err)
	}
	return n > 0, nil
}
