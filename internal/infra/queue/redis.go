package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rgsu-schedule/internal/domain"
)

// RedisChangeQueue реализует очередь задач рассылки на базе Redis lists.
type RedisChangeQueue struct {
	client *redis.Client
	key    string
}

var _ domain.ChangeQueue = (*RedisChangeQueue)(nil)

// NewRedisChangeQueue создаёт очередь по указанному ключу.
func NewRedisChangeQueue(client *redis.Client, key string) *RedisChangeQueue {
	return &RedisChangeQueue{client: client, key: key}
}

// Enqueue публикует задачу в очередь.
func (q *RedisChangeQueue) Enqueue(ctx context.Context, job domain.ChangeJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Pop блокирующе читает задачу из очереди.
func (q *RedisChangeQueue) Pop(ctx context.Context) (domain.ChangeJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.ChangeJob{}, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.ChangeJob{}, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.ChangeJob{}, err
		}
		if len(res) != 2 {
			return domain.ChangeJob{}, errors.New("redis queue: unexpected response")
		}
		var job domain.ChangeJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return domain.ChangeJob{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}
