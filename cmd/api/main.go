package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"rgsu-schedule/internal/adapters/source"
	"rgsu-schedule/internal/api"
	"rgsu-schedule/internal/domain"
	"rgsu-schedule/internal/infra/cache"
	"rgsu-schedule/internal/infra/config"
	httpinfra "rgsu-schedule/internal/infra/http"
	applog "rgsu-schedule/internal/infra/log"
	"rgsu-schedule/internal/infra/metrics"
	"rgsu-schedule/internal/usecase/feed"
	"rgsu-schedule/internal/usecase/schedule"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "api")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := newSource(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: источник расписания не настроен")
	}

	var snapshotCache domain.Cache
	if cfg.RedisAddr != "" {
		snapshotCache = cache.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	scheduleSvc := schedule.NewService(src, snapshotCache, cfg.Cache.SnapshotKey, cfg.Cache.TTL, logger)
	feedBuilder := feed.NewBuilder(time.Now)
	handler := api.NewHandler(scheduleSvc, feedBuilder, logger, cfg.Calendar.MaxAgeSeconds)

	srv := httpinfra.NewServer(logger)
	handler.Mount(srv.Router)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), fmt.Sprintf(":%d", cfg.MetricsPort))

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// newSource выбирает реализацию источника: локальный файл, если он задан,
// иначе Google-таблица.
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
