// Package cache holds read-through caches for todo listings. Storage stays
// the source of truth: callers log cache errors and fall back to it.
//
// Every cached list is stamped with its scope's generation. Readers take the
// generation before loading from storage and write back under it; Invalidate
// bumps the generation, so a list loaded before a write lands on a key no
// later reader asks for.
package cache

import (
	"context"
	"todo_app/internal/domain/model"
)

// ListScope names a cached list: one owner's todos, or every todo.
type ListScope struct {
	OwnerID int64
	All     bool
}

// AllTodos is the admin listing scope.
var AllTodos = ListScope{All: true}

// OwnerTodos is the listing scope of one owner.
func OwnerTodos(ownerID int64) ListScope {
	return ListScope{OwnerID: ownerID}
}

type TodoCache interface {
	// Generation returns the current generation of scope. A scope never
	// invalidated is at generation 0.
	Generation(ctx context.Context, scope ListScope) (int64, error)
	GetList(ctx context.Context, scope ListScope, gen int64) (todos []model.Todo, ok bool, err error)
	SetList(ctx context.Context, scope ListScope, gen int64, todos []model.Todo) error
	// Invalidate advances the generation of every given scope.
	Invalidate(ctx context.Context, scopes ...ListScope) error
}

// NoopTodoCache never holds anything. It is used when Redis is not configured.
type NoopTodoCache struct{}

func (NoopTodoCache) Generation(context.Context, ListScope) (int64, error) { return 0, nil }

func (NoopTodoCache) GetList(context.Context, ListScope, int64) ([]model.Todo, bool, error) {
	return nil, false, nil
}

func (NoopTodoCache) SetList(context.Context, ListScope, int64, []model.Todo) error { return nil }

func (NoopTodoCache) Invalidate(context.Context, ...ListScope) error { return nil }
