package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

// TaskCache is a read-through cache for task listings. A nil, nil return
// means cache miss.
type TaskCache interface {
	GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error)
	SetByStatus(ctx context.Context, status models.Status, tasks []models.Task, ttl time.Duration) error

	GetAll(ctx context.Context) ([]models.Task, error)
	SetAll(ctx context.Context, tasks []models.Task, ttl time.Duration) error

	// Invalidate drops every cached listing. Called after any mutation.
	Invalidate(ctx context.Context) error
}

type RedisTaskCache struct {
	rdb *redis.Client
}

func NewRedisTaskCache(rdb *redis.Client) *RedisTaskCache {
	return &RedisTaskCache{rdb: rdb}
}

const allTasksKey = "tasks:all"

func statusKey(status models.Status) string {
	return "tasks:status:" + string(status)
}

func (c *RedisTaskCache) GetByStatus(ctx context.Context, status models.Status) ([]models.Task, error) {
	return c.get(ctx, statusKey(status))
}

func (c *RedisTaskCache) SetByStatus(ctx context.Context, status models.Status, tasks []models.Task, ttl time.Duration) error {
	return c.set(ctx, statusKey(status), tasks, ttl)
}

func (c *RedisTaskCache) GetAll(ctx context.Context) ([]models.Task, error) {
	return c.get(ctx, allTasksKey)
}

func (c *RedisTaskCache) SetAll(ctx context.Context, tasks []models.Task, ttl time.Duration) error {
	return c.set(ctx, allTasksKey, tasks, ttl)
}

func (c *RedisTaskCache) Invalidate(ctx context.Context) error {
	keys := []string{allTasksKey}
	for _, status := range models.Statuses() {
		keys = append(keys, statusKey(status))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *RedisTaskCache) get(ctx context.Context, key string) ([]models.Task, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(val), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *RedisTaskCache) set(ctx context.Context, key string, tasks []models.Task, ttl time.Duration) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}
