package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	ScheduleLoadSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_load_seconds",
		Help:    "Время загрузки снапшота расписания",
		Buckets: prometheus.DefBuckets,
	})
	ScheduleLoadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_load_errors_total",
		Help: "Ошибки загрузки расписания из источника",
	})
	ScheduleRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_records",
		Help: "Размер последнего снапшота расписания",
	})
	InvisibleRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_invisible_records",
		Help: "Записи, не проходящие предусловия календарной сетки",
	})
	ChangesDetected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_changes_total",
		Help: "Найденные изменения расписания по типам",
	}, []string{"kind"})
	FeedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_feed_requests_total",
		Help: "Запросы календарного фида по статусам ответа",
	}, []string{"status"})
	NotifySendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_send_errors_total",
		Help: "Ошибки отправки уведомлений об изменениях",
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ScheduleLoadSeconds,
		ScheduleLoadErrors,
		ScheduleRecords,
		InvisibleRecords,
		ChangesDetected,
		FeedRequests,
		NotifySendErrors,
	)
}

// ObserveLoad записывает длительность и исход загрузки снапшота.
func ObserveLoad(start time.Time, records int, err error) {
	ScheduleLoadSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		ScheduleLoadErrors.Inc()
		return
	}
	ScheduleRecords.Set(float64(records))
}

// ObserveChanges увеличивает счётчики по типам изменений.
func ObserveChanges(added, removed, modified int) {
	ChangesDetected.WithLabelValues("added").Add(float64(added))
	ChangesDetected.WithLabelValues("removed").Add(float64(removed))
	ChangesDetected.WithLabelValues("modified").Add(float64(modified))
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}
