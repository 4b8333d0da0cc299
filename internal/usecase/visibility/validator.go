// Package visibility классифицирует записи расписания: попадёт ли запись
// в календарную сетку и почему нет. Пакет только диагностирует — ничего
// не фильтрует и не меняет.
package visibility

import (
	"fmt"
	"strings"
	"time"

	"rgsu-schedule/internal/domain"
)

// Check прогоняет каждую запись через предусловия отображения и возвращает
// по одной записи отчёта на каждое занятие с нарушениями. Позиции считаются
// с единицы, в порядке исходного списка.
//
// Проверки повторяют логику календарной сетки:
//   - время — строгое строковое совпадение с одним из слотов;
//   - дата — разбор по маске dd.mm.yyyy, пустая дата даёт отдельную причину;
//   - день недели — вхождение допустимого токена как подстроки в нижнем
//     регистре, пустой день нарушением не считается.
func Check(lessons []domain.Lesson, slots, dayTokens []string) []domain.VisibilityIssue {
	var issues []domain.VisibilityIssue
	for i, lesson := range lessons {
		reasons := checkLesson(lesson, slots, dayTokens)
		if len(reasons) == 0 {
			continue
		}
		issues = append(issues, domain.VisibilityIssue{
			Lesson:   lesson,
			Position: i + 1,
			Reasons:  reasons,
		})
	}
	return issues
}

func checkLesson(lesson domain.Lesson, slots, dayTokens []string) []string {
	var reasons []string

	if lesson.Time != "" && !containsExact(slots, lesson.Time) {
		reasons = append(reasons, fmt.Sprintf("Время %q не совпадает со слотами календаря", lesson.Time))
	}

	if lesson.Date == "" {
		reasons = append(reasons, "Дата не указана")
	} else if _, err := time.Parse(domain.DateLayout, lesson.Date); err != nil {
		reasons = append(reasons, fmt.Sprintf("Неверный формат даты %q", lesson.Date))
	}

	if lesson.DayOfWeek != "" {
		lower := strings.ToLower(lesson.DayOfWeek)
		if !containsAnyToken(lower, dayTokens) {
			reasons = append(reasons, fmt.Sprintf("День недели %q не распознан", lesson.DayOfWeek))
		}
	}

	return reasons
}

func containsExact(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func containsAnyToken(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
