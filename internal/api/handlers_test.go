package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"rgsu-schedule/internal/domain"
	"rgsu-schedule/internal/usecase/feed"
	"rgsu-schedule/internal/usecase/schedule"
)

type stubSource struct {
	lessons []domain.Lesson
	err     error
}

func (s *stubSource) Load(ctx context.Context) ([]domain.Lesson, error) {
	return s.lessons, s.err
}

func newTestRouter(src domain.ScheduleSource) chi.Router {
	svc := schedule.NewService(src, nil, "snap", time.Minute, zerolog.Nop())
	builder := feed.NewBuilder(func() time.Time {
		return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	})
	h := NewHandler(svc, builder, zerolog.Nop(), 300)

	r := chi.NewRouter()
	h.Mount(r)
	return r
}

func eligibleLesson() domain.Lesson {
	return domain.Lesson{
		Group:     "БСТ-101",
		DayOfWeek: "пт",
		Date:      "05.09.2025",
		Time:      "08.30 - 10.00",
		Subject:   "Матанализ",
		Teacher:   "Иванов И.И.",
		Classroom: "414",
	}
}

func TestScheduleEmptySnapshotIs200WithEmptyArray(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubSource{}), "/api/v1/schedule")

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("пустой снапшот — это [], получили %q", body)
	}
}

func TestScheduleSourceFailureIs500WithErrorBody(t *testing.T) {
	rec := doRequest(t, newTestRouter(&stubSource{err: errors.New("нет сети")}), "/api/v1/schedule")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("отказ источника — не-2xx, получили %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Fatalf("ожидали JSON с ошибкой, получили %q", rec.Body.String())
	}
}

func TestScheduleFilterAndSort(t *testing.T) {
	other := eligibleLesson()
	other.Group = "БСТ-102"
	other.Date = "01.09.2025"
	router := newTestRouter(&stubSource{lessons: []domain.Lesson{eligibleLesson(), other}})

	rec := doRequest(t, router, "/api/v1/schedule?group=бст-102")
	var lessons []domain.Lesson
	if err := json.Unmarshal(rec.Body.Bytes(), &lessons); err != nil {
		t.Fatalf("некорректный JSON: %v", err)
	}
	if len(lessons) != 1 || lessons[0].Group != "БСТ-102" {
		t.Fatalf("фильтр по группе не сработал: %+v", lessons)
	}

	rec = doRequest(t, router, "/api/v1/schedule?sort=date")
	if err := json.Unmarshal(rec.Body.Bytes(), &lessons); err != nil {
		t.Fatalf("некорректный JSON: %v", err)
	}
	if lessons[0].Date != "01.09.2025" {
		t.Fatalf("сортировка по дате не сработала: %+v", lessons)
	}

	rec = doRequest(t, router, "/api/v1/schedule?sort=homework")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("неизвестное поле сортировки — 400, получили %d", rec.Code)
	}
}

func TestCalendarUnknownGroupIs404PlainText(t *testing.T) {
	router := newTestRouter(&stubSource{lessons: []domain.Lesson{eligibleLesson()}})

	rec := doRequest(t, router, "/api/v1/calendar/"+url.PathEscape("НЕТ-ТАКОЙ"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("нулевое совпадение — 404, получили %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("тело 404 должно быть text/plain, получили %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("тело 404 не должно быть пустым")
	}
}

func TestCalendarSingleEventFeed(t *testing.T) {
	router := newTestRouter(&stubSource{lessons: []domain.Lesson{eligibleLesson()}})

	rec := doRequest(t, router, "/api/v1/calendar/"+url.PathEscape("БСТ-101"))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("ожидали text/calendar, получили %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="schedule.ics"`) || !strings.Contains(cd, "filename*=UTF-8''") {
		t.Fatalf("Content-Disposition без обоих вариантов имени: %q", cd)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Fatalf("неверный Cache-Control: %q", cc)
	}

	body := rec.Body.String()
	if strings.Count(body, "BEGIN:VEVENT") != 1 {
		t.Fatalf("ожидали ровно один VEVENT:\n%s", body)
	}
	for _, required := range []string{"UID:", "DTSTART:", "DTEND:", "SUMMARY:"} {
		if !strings.Contains(body, required) {
			t.Fatalf("в фиде нет %s:\n%s", required, body)
		}
	}
}

func TestCalendarByTeacher(t *testing.T) {
	router := newTestRouter(&stubSource{lessons: []domain.Lesson{eligibleLesson()}})

	rec := doRequest(t, router, "/api/v1/calendar/"+url.PathEscape("Иванов И.И.")+"?type=teacher")
	if rec.Code != http.StatusOK {
		t.Fatalf("фид по преподавателю должен находиться: %d", rec.Code)
	}

	rec = doRequest(t, router, "/api/v1/calendar/"+url.PathEscape("Иванов И.И."))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("без type=teacher имя преподавателя не группа: %d", rec.Code)
	}
}

func TestCalendarSourceFailureIs500PlainText(t *testing.T) {
	router := newTestRouter(&stubSource{err: errors.New("нет сети")})

	rec := doRequest(t, router, "/api/v1/calendar/"+url.PathEscape("БСТ-101"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("отказ источника — 500, получили %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("тело 500 должно быть text/plain, получили %q", ct)
	}
}

func TestReportListsInvisibleRecords(t *testing.T) {
	broken := eligibleLesson()
	broken.Time = "09.00 - 10.00"
	router := newTestRouter(&stubSource{lessons: []domain.Lesson{eligibleLesson(), broken}})

	rec := doRequest(t, router, "/api/v1/schedule/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	var resp struct {
		Stats     domain.ScheduleStats     `json:"stats"`
		Invisible []domain.VisibilityIssue `json:"invisible"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("некорректный JSON: %v", err)
	}
	if resp.Stats.Total != 2 {
		t.Fatalf("ожидали total=2, получили %d", resp.Stats.Total)
	}
	if len(resp.Invisible) != 1 || resp.Invisible[0].Position != 2 {
		t.Fatalf("ожидали одну невидимую запись на позиции 2: %+v", resp.Invisible)
	}
}

func doRequest(t *testing.T, router chi.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
