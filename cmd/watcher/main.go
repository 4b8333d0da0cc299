package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"rgsu-schedule/internal/adapters/source"
	"rgsu-schedule/internal/domain"
	"rgsu-schedule/internal/infra/config"
	applog "rgsu-schedule/internal/infra/log"
	"rgsu-schedule/internal/infra/metrics"
	"rgsu-schedule/internal/infra/queue"
	"rgsu-schedule/internal/usecase/diff"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "watcher")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := newSource(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("watcher: источник расписания не настроен")
	}

	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("watcher: не задан REDIS_ADDR для очереди изменений")
	}
	jobs := queue.NewRedisChangeQueue(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.Queues.Changes)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), fmt.Sprintf(":%d", cfg.MetricsPort))

	logger.Info().Dur("interval", cfg.Poll.Interval).Msg("watcher: опрос источника запущен")
	runPollLoop(ctx, cfg.Poll.Interval, src, jobs, logger)
	logger.Info().Msg("watcher: остановка")
}

// runPollLoop раз в интервал перечитывает источник и сравнивает снапшоты.
// Предыдущий снапшот — обычное локальное значение, целиком замещаемое после
// каждого сравнения; никакого разделяемого состояния. Первый успешный снапшот
// только инициализирует состояние, без рассылки.
func runPollLoop(ctx context.Context, interval time.Duration, src domain.ScheduleSource, jobs domain.ChangeQueue, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var previous []domain.Lesson
	primed := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		start := time.Now()
		current, err := src.Load(ctx)
		metrics.ObserveLoad(start, len(current), err)
		if err != nil {
			logger.Error().Err(err).Msg("watcher: загрузка снапшота сорвалась, прежнее состояние сохранено")
			continue
		}

		if !primed {
			previous = current
			primed = true
			logger.Info().Int("records", len(current)).Msg("watcher: начальный снапшот загружен")
			continue
		}

		changes := diff.Diff(previous, current)
		previous = current

		if changes.Empty() {
			continue
		}
		metrics.ObserveChanges(len(changes.Added), len(changes.Removed), len(changes.Modified))

		job := domain.ChangeJob{
			ID:         uuid.NewString(),
			Changes:    changes,
			Snapshot:   len(current),
			DetectedAt: time.Now().UTC(),
			Cause:      domain.ChangeCausePoll,
		}
		if err := jobs.Enqueue(ctx, job); err != nil {
			logger.Error().Err(err).Str("job", job.ID).Msg("watcher: не удалось поставить задачу рассылки")
			continue
		}
		logger.Info().
			Str("job", job.ID).
			Int("added", len(changes.Added)).
			Int("removed", len(changes.Removed)).
			Int("modified", len(changes.Modified)).
			Msg("watcher: изменения отправлены в очередь")
	}
}

func newSource(ctx context.Context, cfg config.AppConfig) (domain.ScheduleSource, error) {
	if cfg.Source.FilePath != "" {
		return source.NewFileSource(cfg.Source.FilePath, cfg.Source.Delimiter), nil
	}
	return source.NewSheetsSource(ctx, source.SheetsConfig{
		SpreadsheetID: cfg.Source.SpreadsheetID,
		ReadRange:     cfg.Source.ReadRange,
		ClientEmail:   cfg.Source.ClientEmail,
		PrivateKey:    cfg.Source.PrivateKey,
	})
}
