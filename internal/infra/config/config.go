package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Europe/Minsk"`
	Port   int    `envconfig:"PORT" default:"8080"`

	MetricsPort int `envconfig:"METRICS_PORT" default:"9090"`

	Source struct {
		FilePath      string `envconfig:"SCHEDULE_FILE"`
		Delimiter     string `envconfig:"SCHEDULE_FILE_DELIMITER" default:";"`
		SpreadsheetID string `envconfig:"GOOGLE_SPREADSHEET_ID"`
		ReadRange     string `envconfig:"GOOGLE_SHEET_RANGE" default:"A2:H"`
		ClientEmail   string `envconfig:"GOOGLE_CLIENT_EMAIL"`
		PrivateKey    string `envconfig:"GOOGLE_PRIVATE_KEY"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Cache struct {
		SnapshotKey string        `envconfig:"SCHEDULE_CACHE_KEY" default:"schedule_snapshot"`
		TTL         time.Duration `envconfig:"SCHEDULE_CACHE_TTL" default:"300s"`
	} `envconfig:""`

	Poll struct {
		Interval time.Duration `envconfig:"POLL_INTERVAL" default:"1m"`
	} `envconfig:""`

	Telegram struct {
		Token   string  `envconfig:"TG_BOT_TOKEN"`
		ChatIDs []int64 `envconfig:"TG_NOTIFY_CHAT_IDS"`
	} `envconfig:""`

	Queues struct {
		Changes string `envconfig:"CHANGES_QUEUE_KEY" default:"schedule_changes"`
	} `envconfig:""`

	Calendar struct {
		MaxAgeSeconds int `envconfig:"CALENDAR_MAX_AGE" default:"300"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
