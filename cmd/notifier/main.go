package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"rgsu-schedule/internal/adapters/notify"
	"rgsu-schedule/internal/infra/cache"
	"rgsu-schedule/internal/infra/config"
	applog "rgsu-schedule/internal/infra/log"
	"rgsu-schedule/internal/infra/metrics"
	"rgsu-schedule/internal/infra/queue"
)

// Дедупликация задач: ключ живёт сутки, дольше задача в очереди не живёт.
const jobDedupTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "notifier")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("notifier: не задан REDIS_ADDR для очереди изменений")
	}
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	jobs := queue.NewRedisChangeQueue(redisClient, cfg.Queues.Changes)
	dedup := cache.NewRedis(redisClient)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("notifier: не удалось создать Telegram-бота")
	}
	sender := notify.NewTelegramNotifier(bot, cfg.Telegram.ChatIDs, logger)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), fmt.Sprintf(":%d", cfg.MetricsPort))

	logger.Info().Int("chats", len(cfg.Telegram.ChatIDs)).Msg("notifier: ожидание задач")
	for {
		job, err := jobs.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error().Err(err).Msg("notifier: чтение очереди сорвалось")
			continue
		}

		err = dedup.Once(ctx, "change_job:"+job.ID, jobDedupTTL, func() error {
			return sender.NotifyChanges(ctx, job.Changes)
		})
		if err != nil {
			logger.Error().Err(err).Str("job", job.ID).Msg("notifier: рассылка не доставлена")
			continue
		}
		logger.Info().Str("job", job.ID).Int("total", job.Changes.Total()).Msg("notifier: рассылка выполнена")
	}
	logger.Info().Msg("notifier: остановка")
}
