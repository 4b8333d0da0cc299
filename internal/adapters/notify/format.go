// Package notify доставляет сводки изменений расписания в Telegram.
package notify

import (
	"fmt"
	"html"
	"strings"

	"rgsu-schedule/internal/domain"
)

// FormatChanges формирует HTML-сообщение по ChangeSet: секции добавленных,
// отменённых и изменённых занятий. Пустой ChangeSet даёт пустую строку.
func FormatChanges(cs domain.ChangeSet) string {
	if cs.Empty() {
		return ""
	}

	var sections []string
	sections = append(sections, "📅 <b>Расписание обновлено</b>")

	if len(cs.Added) > 0 {
		var b strings.Builder
		b.WriteString("➕ <b>Добавлены занятия</b>\n")
		for _, l := range cs.Added {
			b.WriteString(lessonLine(l) + "\n")
		}
		sections = append(sections, strings.TrimSpace(b.String()))
	}

	if len(cs.Removed) > 0 {
		var b strings.Builder
		b.WriteString("➖ <b>Отменены занятия</b>\n")
		for _, l := range cs.Removed {
			b.WriteString(lessonLine(l) + "\n")
		}
		sections = append(sections, strings.TrimSpace(b.String()))
	}

	if len(cs.Modified) > 0 {
		var b strings.Builder
		b.WriteString("✏️ <b>Изменены занятия</b>\n")
		for _, ch := range cs.Modified {
			b.WriteString(lessonLine(ch.New) + "\n")
			for _, d := range fieldDiffs(ch.Old, ch.New) {
				b.WriteString("    " + d + "\n")
			}
		}
		sections = append(sections, strings.TrimSpace(b.String()))
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

func lessonLine(l domain.Lesson) string {
	line := fmt.Sprintf("• %s %s — <b>%s</b>", esc(l.Date), esc(l.Time), esc(l.Subject))
	var details []string
	if l.Group != "" {
		details = append(details, esc(l.Group))
	}
	if l.Teacher != "" {
		details = append(details, esc(l.Teacher))
	}
	if l.Classroom != "" {
		details = append(details, "ауд. "+esc(l.Classroom))
	}
	if len(details) > 0 {
		line += " (" + strings.Join(details, ", ") + ")"
	}
	return line
}

// fieldDiffs перечисляет отличия только по содержательным полям: ключевые
// поля у пары old/new совпадают по построению ChangeSet.
func fieldDiffs(old, curr domain.Lesson) []string {
	var diffs []string
	add := func(label, before, after string) {
		if before != after {
			diffs = append(diffs, fmt.Sprintf("%s: %s → %s", label, esc(orDash(before)), esc(orDash(after))))
		}
	}
	add("предмет", old.Subject, curr.Subject)
	add("преподаватель", old.Teacher, curr.Teacher)
	add("аудитория", old.Classroom, curr.Classroom)
	add("вид занятия", old.LessonType, curr.LessonType)
	return diffs
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func esc(s string) string {
	return html.EscapeString(s)
}
