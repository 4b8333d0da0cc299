// Package api содержит HTTP-обработчики: выдача расписания, диагностический
// отчёт и календарный фид.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"rgsu-schedule/internal/domain"
	"rgsu-schedule/internal/infra/metrics"
	"rgsu-schedule/internal/usecase/feed"
	"rgsu-schedule/internal/usecase/schedule"
	"rgsu-schedule/internal/usecase/visibility"
)

// Handler связывает HTTP-маршруты с бизнес-логикой.
type Handler struct {
	schedule *schedule.Service
	feed     *feed.Builder
	log      zerolog.Logger
	maxAge   int
}

// NewHandler создаёт обработчик.
func NewHandler(scheduleSvc *schedule.Service, feedBuilder *feed.Builder, log zerolog.Logger, feedMaxAge int) *Handler {
	return &Handler{schedule: scheduleSvc, feed: feedBuilder, log: log, maxAge: feedMaxAge}
}

// Mount вешает маршруты на роутер.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/api/v1/schedule", h.handleSchedule)
	r.Get("/api/v1/schedule/report", h.handleReport)
	r.Get("/api/v1/calendar/{name}", h.handleCalendar)
}

// handleSchedule отдаёт полный снапшот как JSON-массив. Пустой снапшот —
// это 200 с [], отказ источника — 500 с телом ошибки: клиент обязан их
// различать и рисовать разные состояния.
func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.schedule.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("api: снапшот недоступен")
		writeError(w, http.StatusInternalServerError, "Ошибка при загрузке расписания")
		return
	}

	if filtered, ok := applyQuery(w, r, lessons); ok {
		writeJSON(w, filtered)
	}
}

func applyQuery(w http.ResponseWriter, r *http.Request, lessons []domain.Lesson) ([]domain.Lesson, bool) {
	q := r.URL.Query()
	if group := q.Get("group"); group != "" {
		lessons = schedule.Filter(lessons, domain.FilterGroup, group)
	}
	if teacher := q.Get("teacher"); teacher != "" {
		lessons = schedule.Filter(lessons, domain.FilterTeacher, teacher)
	}
	if sortName := q.Get("sort"); sortName != "" {
		field, err := domain.ParseFilterField(sortName)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		lessons = schedule.SortBy(lessons, field)
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	return lessons, true
}

type reportResponse struct {
	Stats     domain.ScheduleStats     `json:"stats"`
	Invisible []domain.VisibilityIssue `json:"invisible"`
}

// handleReport отдаёт диагностику снапшота: сводку и список записей,
// которые не попадут в календарную сетку.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.schedule.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("api: снапшот недоступен")
		writeError(w, http.StatusInternalServerError, "Ошибка при загрузке расписания")
		return
	}

	issues := visibility.Check(lessons, domain.TimeSlots, domain.DayTokens)
	metrics.InvisibleRecords.Set(float64(len(issues)))
	if issues == nil {
		issues = []domain.VisibilityIssue{}
	}
	writeJSON(w, reportResponse{
		Stats:     visibility.BuildStats(lessons),
		Invisible: issues,
	})
}

// handleCalendar отдаёт iCalendar-фид для группы, либо преподавателя при
// type=teacher. Ноль подходящих записей — это 404 текстом, а не пустой
// календарь: подписанные клиенты не должны закэшировать пустой фид.
func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	byTeacher := r.URL.Query().Get("type") == "teacher"

	lessons, err := h.schedule.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("api: генерация фида сорвалась")
		metrics.FeedRequests.WithLabelValues("error").Inc()
		writePlain(w, http.StatusInternalServerError, "Ошибка генерации календаря")
		return
	}

	matched := schedule.ForFeed(lessons, name, byTeacher)
	if len(matched) == 0 {
		metrics.FeedRequests.WithLabelValues("not_found").Inc()
		writePlain(w, http.StatusNotFound, "Расписание не найдено")
		return
	}

	doc := h.feed.Build(matched, name)
	metrics.FeedRequests.WithLabelValues("ok").Inc()

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="schedule.ics"; filename*=UTF-8''%s.ics`,
		url.QueryEscape(name),
	))
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.maxAge))
	_, _ = w.Write([]byte(doc))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}

func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
