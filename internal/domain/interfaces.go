package domain

import (
	"context"
	"time"
)

// ScheduleSource отдаёт полный снапшот расписания из внешнего источника.
// Пустой срез без ошибки означает "данных нет"; ошибка — "источник недоступен".
// Вызывающий слой обязан различать эти два исхода.
type ScheduleSource interface {
	Load(ctx context.Context) ([]Lesson, error)
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Notifier доставляет сводку изменений расписания подписчикам.
// Гарантия доставки — at-most-once.
type Notifier interface {
	NotifyChanges(ctx context.Context, changes ChangeSet) error
}
