package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"
	"todo_app/internal/domain/model"
	"todo_app/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

const (
	allTodosKey     = "todos:all"
	ownerTodoPrefix = "todos:owner:"
	generationKey   = "todos:gen:"
)

// ConnectRedis returns a client for cfg.RedisAddr after a successful ping.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	log.Println("Successfully connected to Redis!")
	return rdb, nil
}

func CloseRedis(rdb *redis.Client) {
	if rdb != nil {
		rdb.Close()
		log.Println("Redis connection closed.")
	}
}

// RedisTodoCache stores JSON-encoded todo lists with a TTL.
type RedisTodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTodoCache(rdb *redis.Client, ttl time.Duration) *RedisTodoCache {
	return &RedisTodoCache{rdb: rdb, ttl: ttl}
}

func scopeKey(scope ListScope) string {
	if scope.All {
		return allTodosKey
	}
	return ownerTodoPrefix + strconv.FormatInt(scope.OwnerID, 10)
}

// genKey holds the scope's generation counter. It has no TTL.
func genKey(scope ListScope) string {
	if scope.All {
		return generationKey + "all"
	}
	return generationKey + "owner:" + strconv.FormatInt(scope.OwnerID, 10)
}

func listKey(scope ListScope, gen int64) string {
	return scopeKey(scope) + ":" + strconv.FormatInt(gen, 10)
}

func (c *RedisTodoCache) Generation(ctx context.Context, scope ListScope) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(scope)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", genKey(scope), err)
	}
	return gen, nil
}

func (c *RedisTodoCache) GetList(ctx context.Context, scope ListScope, gen int64) ([]model.Todo, bool, error) {
	key := listKey(scope, gen)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var todos []model.Todo
	if err := json.Unmarshal(raw, &todos); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return todos, true, nil
}

func (c *RedisTodoCache) SetList(ctx context.Context, scope ListScope, gen int64, todos []model.Todo) error {
	key := listKey(scope, gen)
	raw, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps every scope's generation in one MULTI/EXEC. Lists stored
// under older generations are left to expire.
func (c *RedisTodoCache) Invalidate(ctx context.Context, scopes ...ListScope) error {
	if len(scopes) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, scope := range scopes {
			pipe.Incr(ctx, genKey(scope))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis incr %s: %w", genKey(scopes[0]), err)
	}
	return nil
}
