package domain

import (
	"context"
	"time"
)

// ChangeJobCause описывает, что породило задачу на рассылку.
type ChangeJobCause string

const (
	// ChangeCausePoll — изменения нашёл периодический опрос источника.
	ChangeCausePoll ChangeJobCause = "poll"
	// ChangeCauseManual — сравнение запустили вручную.
	ChangeCauseManual ChangeJobCause = "manual"
)

// ChangeJob — задача на доставку уведомления об изменениях расписания.
// ChangeSet живёт ровно один цикл: построили, отправили в очередь, забыли.
type ChangeJob struct {
	ID         string         `json:"job_id"`
	Changes    ChangeSet      `json:"changes"`
	Snapshot   int            `json:"snapshot_size"`
	DetectedAt time.Time      `json:"detected_at"`
	Cause      ChangeJobCause `json:"cause"`
}

// ChangeQueue описывает очередь задач на рассылку изменений.
type ChangeQueue interface {
	Enqueue(ctx context.Context, job ChangeJob) error
	// Pop блокируется до появления задачи или отмены контекста.
	Pop(ctx context.Context) (ChangeJob, error)
}
