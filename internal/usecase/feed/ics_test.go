package feed

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"rgsu-schedule/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
}

func sampleLesson() domain.Lesson {
	return domain.Lesson{
		Group:      "БСТ-101",
		DayOfWeek:  "пт",
		Date:       "05.09.2025",
		Time:       "08.30 - 10.00",
		Subject:    "Математический анализ",
		LessonType: "лекция",
		Teacher:    "Иванов И.И.",
		Classroom:  "414",
	}
}

func TestBuildEscapesText(t *testing.T) {
	lesson := sampleLesson()
	lesson.Subject = "Seminar; A,B\nC"

	doc := NewBuilder(fixedClock).Build([]domain.Lesson{lesson}, "БСТ-101")

	mustContain(t, doc, `SUMMARY:Seminar\; A\,B\nC`)
	// соседние строки документа не должны пострадать от переноса в тексте
	for _, line := range strings.Split(doc, "\r\n") {
		if line == "C" {
			t.Fatal("перевод строки в предмете порвал документ")
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	builder := NewBuilder(fixedClock)
	lessons := []domain.Lesson{sampleLesson()}

	first := builder.Build(lessons, "БСТ-101")
	second := builder.Build(lessons, "БСТ-101")

	if first != second {
		t.Fatal("повторная генерация из тех же записей должна давать байт-в-байт тот же документ")
	}
}

func TestBuildSkipsIneligibleRecords(t *testing.T) {
	badDate := sampleLesson()
	badDate.Date = "31.13.2025"
	badTime := sampleLesson()
	badTime.Time = "первая пара"

	doc := NewBuilder(fixedClock).Build([]domain.Lesson{badDate, badTime}, "БСТ-101")

	if strings.Contains(doc, "BEGIN:VEVENT") {
		t.Fatalf("непригодные записи должны молча пропускаться:\n%s", doc)
	}
	mustContain(t, doc, "BEGIN:VCALENDAR")
	mustContain(t, doc, "END:VCALENDAR")
}

func TestBuildEmptyInputStillValidContainer(t *testing.T) {
	doc := NewBuilder(fixedClock).Build(nil, "БСТ-101")
	if _, err := ics.ParseCalendar(strings.NewReader(doc)); err != nil {
		t.Fatalf("пустой контейнер должен оставаться валидным ICS: %v", err)
	}
}

func TestBuildOmitsEmptyLocation(t *testing.T) {
	lesson := sampleLesson()
	lesson.Classroom = ""

	doc := NewBuilder(fixedClock).Build([]domain.Lesson{lesson}, "БСТ-101")

	if strings.Contains(doc, "LOCATION") {
		t.Fatalf("пустая аудитория не должна давать строку LOCATION:\n%s", doc)
	}
}

func TestBuildRoundTrip(t *testing.T) {
	doc := NewBuilder(fixedClock).Build([]domain.Lesson{sampleLesson()}, "БСТ-101")

	cal, err := ics.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("сгенерированный документ не разбирается: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("ожидали одно событие, получили %d", len(events))
	}

	ev := events[0]
	uid := propValue(t, ev, ics.ComponentPropertyUniqueId)
	if !strings.HasSuffix(uid, "@rgsu-schedule") {
		t.Fatalf("UID должен оканчиваться доменной меткой: %s", uid)
	}
	if strings.ContainsAny(uid, " \t") {
		t.Fatalf("пробелы в UID должны быть заменены: %s", uid)
	}

	start := propValue(t, ev, ics.ComponentPropertyDtStart)
	end := propValue(t, ev, ics.ComponentPropertyDtEnd)
	if start[:8] != "20250905" || end[:8] != "20250905" {
		t.Fatalf("начало и конец должны делить один 8-значный префикс даты: %s / %s", start, end)
	}
	if start >= end {
		t.Fatalf("начало должно быть раньше конца: %s >= %s", start, end)
	}
	if propValue(t, ev, ics.ComponentPropertySummary) == "" {
		t.Fatal("SUMMARY не должен быть пустым")
	}
}

func propValue(t *testing.T, ev *ics.VEvent, prop ics.ComponentProperty) string {
	t.Helper()
	p := ev.GetProperty(prop)
	if p == nil {
		t.Fatalf("в событии нет свойства %s", prop)
	}
	return p.Value
}

func mustContain(t *testing.T, doc, fragment string) {
	t.Helper()
	if !strings.Contains(doc, fragment) {
		t.Fatalf("в документе нет %q:\n%s", fragment, doc)
	}
}
