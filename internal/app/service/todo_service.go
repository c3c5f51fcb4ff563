package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"todo_app/internal/domain/model"
	"todo_app/internal/domain/repository"
	"todo_app/internal/platform/cache"
)

type TodoService struct {
	todoRepo repository.TodoRepository
	cache    cache.TodoCache
	db       *sql.DB // For transactions

	// stale holds scopes whose invalidation failed. They bypass the cache
	// until a retried Invalidate succeeds.
	stale    sync.Map // cache.ListScope -> uint64
	staleSeq atomic.Uint64
}

func NewTodoService(todoRepo repository.TodoRepository, todoCache cache.TodoCache, db *sql.DB) *TodoService {
	if todoCache == nil {
		todoCache = cache.NoopTodoCache{}
	}
	return &TodoService{todoRepo: todoRepo, cache: todoCache, db: db}
}

// TodoRequest is the full set of caller-editable fields, used for both
// create and replace.
type TodoRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=3,max=100"`
	Priority    int    `json:"priority" validate:"required,priority"`
	Completed   *bool  `json:"completed" validate:"required"`
}

func (s *TodoService) ListForOwner(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	return s.cachedList(ctx, cache.OwnerTodos(ownerID), func() ([]model.Todo, error) {
		return s.todoRepo.ListByOwner(ctx, ownerID)
	})
}

func (s *TodoService) ListAll(ctx context.Context) ([]model.Todo, error) {
	return s.cachedList(ctx, cache.AllTodos, func() ([]model.Todo, error) {
		return s.todoRepo.ListAll(ctx)
	})
}

// cachedList serves scope from the cache when it is usable. The generation
// is read before load, so a list loaded across a concurrent write is stored
// under a generation that write has already retired.
func (s *TodoService) cachedList(ctx context.Context, scope cache.ListScope, load func() ([]model.Todo, error)) ([]model.Todo, error) {
	if !s.cacheUsable(ctx, scope) {
		return loadList(load)
	}
	gen, err := s.cache.Generation(ctx, scope)
	if err != nil {
		log.Printf("WARN: todo cache generation read failed: %v", err)
		return loadList(load)
	}

	todos, ok, err := s.cache.GetList(ctx, scope, gen)
	if err != nil {
		log.Printf("WARN: todo cache read failed: %v", err)
	}
	if ok {
		return todos, nil
	}

	todos, err = loadList(load)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetList(ctx, scope, gen, todos); err != nil {
		log.Printf("WARN: todo cache write failed: %v", err)
	}
	return todos, nil
}

func loadList(load func() ([]model.Todo, error)) ([]model.Todo, error) {
	todos, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// cacheUsable retries the invalidation of a scope marked stale. A scope
// marked again while the retry ran stays stale.
func (s *TodoService) cacheUsable(ctx context.Context, scope cache.ListScope) bool {
	mark, stale := s.stale.Load(scope)
	if !stale {
		return true
	}
	if err := s.cache.Invalidate(ctx, scope); err != nil {
		log.Printf("WARN: todo cache still unavailable for %+v: %v", scope, err)
		return false
	}
	return s.stale.CompareAndDelete(scope, mark)
}

// GetForOwner returns common.ErrNotFound both for missing todos and for
// todos owned by someone else.
func (s *TodoService) GetForOwner(ctx context.Context, ownerID, todoID int64) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByIDForOwner(ctx, nil, todoID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("todo %d: %w", todoID, err)
	}
	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, ownerID int64, req TodoRequest) (*model.Todo, error) {
	todo := &model.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed != nil && *req.Completed,
		OwnerID:     ownerID,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return todo, nil
}

// Update replaces title, description, priority and completed on one of the
// owner's todos. Concurrent updates to the same todo are last-write-wins.
func (s *TodoService) Update(ctx context.Context, ownerID, todoID int64, req TodoRequest) error {
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		todo, err := s.todoRepo.FindByIDForOwner(ctx, tx, todoID, ownerID)
		if err != nil {
			return err
		}
		todo.Title = req.Title
		todo.Description = req.Description
		todo.Priority = req.Priority
		todo.Completed = req.Completed != nil && *req.Completed
		return s.todoRepo.Update(ctx, tx, todo)
	})
	if err != nil {
		return fmt.Errorf("todo %d: %w", todoID, err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *TodoService) DeleteForOwner(ctx context.Context, ownerID, todoID int64) error {
	if err := s.todoRepo.DeleteForOwner(ctx, todoID, ownerID); err != nil {
		return fmt.Errorf("todo %d: %w", todoID, err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// DeleteAny removes a todo whoever owns it. Callers must have checked the
// admin role.
func (s *TodoService) DeleteAny(ctx context.Context, todoID int64) error {
	ownerID, err := s.todoRepo.Delete(ctx, todoID)
	if err != nil {
		return fmt.Errorf("todo %d: %w", todoID, err)
	}
	log.Printf("INFO: todo %d of user %d deleted by admin", todoID, ownerID)
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *TodoService) invalidate(ctx context.Context, ownerID int64) {
	scopes := []cache.ListScope{cache.OwnerTodos(ownerID), cache.AllTodos}
	if err := s.cache.Invalidate(ctx, scopes...); err != nil {
		log.Printf("WARN: todo cache invalidation for user %d failed, reading from storage until it recovers: %v", ownerID, err)
		for _, scope := range scopes {
			s.stale.Store(scope, s.staleSeq.Add(1))
		}
	}
}
