package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tasksZSet   = "deferred:fire_at"
	payloadHash = "deferred:payloads"
)

// RedisScheduler хранит задачи в ZSET (score — unix-время срабатывания)
// и payload в HASH под тем же ключом. Обе операции идемпотентны.
type RedisScheduler struct {
	rdb *redis.Client
}

func NewRedisScheduler(rdb *redis.Client) *RedisScheduler {
	return &RedisScheduler{rdb: rdb}
}

func (s *RedisScheduler) Schedule(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.Key, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, tasksZSet, redis.Z{
		Score:  float64(task.FireAt.Unix()),
		Member: task.Key,
	})
	pipe.HSet(ctx, payloadHash, task.Key, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("schedule task %s: %w", task.Key, err)
	}
	return nil
}

func (s *RedisScheduler) Cancel(ctx context.Context, key string) error {
	pipe := s.rdb.TxPipeline()
	pipe.ZRem(ctx, tasksZSet, key)
	pipe.HDel(ctx, payloadHash, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cancel task %s: %w", key, err)
	}
	return nil
}

// Due возвращает задачи, чьё время наступило, не удаляя их.
func (s *RedisScheduler) Due(ctx context.Context, now time.Time) ([]Task, error) {
	keys, err := s.rdb.ZRangeByScore(ctx, tasksZSet, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", now.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	payloads, err := s.rdb.HMGet(ctx, payloadHash, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load due payloads: %w", err)
	}

	tasks := make([]Task, 0, len(keys))
	for i, raw := range payloads {
		str, ok := raw.(string)
		if !ok {
			// Задача без payload — битая, убираем из очереди.
			s.rdb.ZRem(ctx, tasksZSet, keys[i])
			continue
		}
		var task Task
		if err := json.Unmarshal([]byte(str), &task); err != nil {
			s.Cancel(ctx, keys[i])
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
