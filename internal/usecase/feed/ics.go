// Package feed генерирует iCalendar-документ по отфильтрованному списку
// занятий одной группы или преподавателя.
package feed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"rgsu-schedule/internal/domain"
)

const (
	prodID     = "-//RGSU Schedule//Minsk Branch//RU"
	uidDomain  = "rgsu-schedule"
	icsDateFmt = "20060102"
)

// Структурная проверка времени, в отличие от строгого словаря слотов
// в visibility: любая пара ЧЧ.ММ через дефис проходит.
var timeSlotRe = regexp.MustCompile(`(\d{2})\.(\d{2})\s*-\s*(\d{2})\.(\d{2})`)

var whitespaceRe = regexp.MustCompile(`\s`)

// Builder собирает ICS-документы. Часы внедряются снаружи, чтобы
// генерация была воспроизводимой в тестах.
type Builder struct {
	now func() time.Time
}

// NewBuilder создаёт генератор валидных iCalendar-документов.
func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Build превращает занятия в единый iCalendar-документ. Записи с датой вне
// маски dd.mm.yyyy или временем вне шаблона ЧЧ.ММ - ЧЧ.ММ молча
// пропускаются. Пустой итоговый набор событий — это всё ещё валидный пустой
// контейнер; короткое замыкание в 404 делает HTTP-слой до вызова генератора.
func (b *Builder) Build(lessons []domain.Lesson, calendarName string) string {
	stamp := b.now().UTC().Format("20060102T150405") + "Z"

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:Расписание " + calendarName,
		"X-WR-TIMEZONE:Europe/Minsk",
	}

	for _, lesson := range lessons {
		dateICS, ok := formatDate(lesson.Date)
		if !ok {
			continue
		}
		start, end, ok := parseTimeSlot(lesson.Time)
		if !ok {
			continue
		}

		description := "Преподаватель: " + lesson.Teacher
		if lesson.LessonType != "" {
			description += "\nТип: " + lesson.LessonType
		}

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+eventUID(lesson),
			"DTSTAMP:"+stamp,
			fmt.Sprintf("DTSTART:%sT%s", dateICS, start),
			fmt.Sprintf("DTEND:%sT%s", dateICS, end),
			"SUMMARY:"+escapeText(lesson.Subject),
		)
		if lesson.Classroom != "" {
			lines = append(lines, "LOCATION:Ауд. "+escapeText(lesson.Classroom))
		}
		lines = append(lines,
			"DESCRIPTION:"+escapeText(description),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n")
}

// eventUID строит стабильный идентификатор события: при повторной генерации
// из тех же записей идентификаторы совпадают и календарные клиенты
// дедуплицируют события между обновлениями.
func eventUID(l domain.Lesson) string {
	raw := strings.Join([]string{l.Date, l.Time, l.Group, l.Subject}, "-")
	return whitespaceRe.ReplaceAllString(raw, "-") + "@" + uidDomain
}

// formatDate переводит dd.mm.yyyy в 8-значный YYYYMMDD.
func formatDate(date string) (string, bool) {
	parsed, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", false
	}
	return parsed.Format(icsDateFmt), true
}

// parseTimeSlot переводит "08.30 - 10.00" в пару "083000", "100000".
func parseTimeSlot(slot string) (start, end string, ok bool) {
	m := timeSlotRe.FindStringSubmatch(slot)
	if m == nil {
		return "", "", false
	}
	return m[1] + m[2] + "00", m[3] + m[4] + "00", true
}

// escapeText экранирует текст по правилам iCalendar: бэкслеш, точка с
// запятой и запятая получают ведущий бэкслеш, перевод строки становится
// последовательностью \n. Бэкслеш обрабатывается первым, иначе двойное
// экранирование.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, ";", `\;`)
	text = strings.ReplaceAll(text, ",", `\,`)
	text = strings.ReplaceAll(text, "\n", `\n`)
	return text
}
