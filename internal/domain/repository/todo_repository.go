package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"todo_app/internal/common"
	"todo_app/internal/domain/model"
)

// TodoRepository persists todos. Methods suffixed ForOwner only match rows
// owned by ownerID, so another user's todo is indistinguishable from a
// missing one.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error)
	ListAll(ctx context.Context) ([]model.Todo, error)
	FindByIDForOwner(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*model.Todo, error)
	Update(ctx context.Context, tx *sql.Tx, todo *model.Todo) error
	DeleteForOwner(ctx context.Context, id, ownerID int64) error
	Delete(ctx context.Context, id int64) (ownerID int64, err error)
}

type sqlTodoRepository struct {
	db *sql.DB
}

func NewSQLTodoRepository(db *sql.DB) TodoRepository {
	return &sqlTodoRepository{db: db}
}

const todoColumns = `id, title, description, priority, completed, owner_id`

func (r *sqlTodoRepository) Create(ctx context.Context, t *model.Todo) error {
	query := `INSERT INTO todos (title, description, priority, completed, owner_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query, t.Title, t.Description, t.Priority, t.Completed, t.OwnerID).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("sqlTodoRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlTodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1 ORDER BY id`
	return r.list(ctx, "ListByOwner", query, ownerID)
}

func (r *sqlTodoRepository) ListAll(ctx context.Context) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY id`
	return r.list(ctx, "ListAll", query)
}

func (r *sqlTodoRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlTodoRepository.%s query: %w", op, err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.OwnerID); err != nil {
			return nil, fmt.Errorf("sqlTodoRepository.%s scan: %w", op, err)
		}
		todos = append(todos, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlTodoRepository.%s rows.Err: %w", op, err)
	}
	return todos, nil
}

func (r *sqlTodoRepository) FindByIDForOwner(ctx context.Context, tx *sql.Tx, id, ownerID int64) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND owner_id = $2`
	return r.findOne(ctx, conn(r.db, tx), "FindByIDForOwner", query, id, ownerID)
}

func (r *sqlTodoRepository) findOne(ctx context.Context, q DBTX, op, query string, args ...interface{}) (*model.Todo, error) {
	t := &model.Todo{}
	err := q.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlTodoRepository.%s: %w", op, err)
	}
	return t, nil
}

// Update replaces the mutable fields of todo, matching on both id and owner.
func (r *sqlTodoRepository) Update(ctx context.Context, tx *sql.Tx, t *model.Todo) error {
	query := `UPDATE todos SET title = $1, description = $2, priority = $3, completed = $4
	          WHERE id = $5 AND owner_id = $6`
	res, err := conn(r.db, tx).ExecContext(ctx, query, t.Title, t.Description, t.Priority, t.Completed, t.ID, t.OwnerID)
	if err != nil {
		return fmt.Errorf("sqlTodoRepository.Update: %w", err)
	}
	return expectOneRow(res, "sqlTodoRepository.Update")
}

func (r *sqlTodoRepository) DeleteForOwner(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("sqlTodoRepository.DeleteForOwner: %w", err)
	}
	return expectOneRow(res, "sqlTodoRepository.DeleteForOwner")
}

// Delete removes a todo regardless of owner and reports whose it was.
func (r *sqlTodoRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := r.db.QueryRowContext(ctx, `DELETE FROM todos WHERE id = $1 RETURNING owner_id`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("sqlTodoRepository.Delete: %w", err)
	}
	return ownerID, nil
}
