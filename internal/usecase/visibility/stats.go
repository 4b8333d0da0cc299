package visibility

import (
	"fmt"
	"strings"

	"rgsu-schedule/internal/domain"
)

// BuildStats собирает сводку по снапшоту для диагностического отчёта:
// размеры, количество уникальных значений, пустые поля и дубликаты
// идентификационных ключей.
func BuildStats(lessons []domain.Lesson) domain.ScheduleStats {
	groups := make(map[string]struct{})
	teachers := make(map[string]struct{})
	dates := make(map[string]struct{})
	subjects := make(map[string]struct{})
	slots := make(map[string]struct{})

	empty := map[string]int{
		"group": 0, "date": 0, "time": 0,
		"subject": 0, "teacher": 0, "classroom": 0,
	}

	keyCount := make(map[string]int)
	keyOrder := make([]string, 0)

	for _, l := range lessons {
		groups[l.Group] = struct{}{}
		teachers[l.Teacher] = struct{}{}
		dates[l.Date] = struct{}{}
		subjects[l.Subject] = struct{}{}
		slots[l.Time] = struct{}{}

		countEmpty(empty, "group", l.Group)
		countEmpty(empty, "date", l.Date)
		countEmpty(empty, "time", l.Time)
		countEmpty(empty, "subject", l.Subject)
		countEmpty(empty, "teacher", l.Teacher)
		countEmpty(empty, "classroom", l.Classroom)

		key := fmt.Sprintf("%s | %s | %s | %s | %s", l.Group, l.Date, l.Time, l.Teacher, l.Subject)
		if _, seen := keyCount[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		keyCount[key]++
	}

	var duplicates []domain.DuplicateKey
	for _, key := range keyOrder {
		if keyCount[key] > 1 {
			duplicates = append(duplicates, domain.DuplicateKey{Key: key, Count: keyCount[key]})
		}
	}

	return domain.ScheduleStats{
		Total:       len(lessons),
		Groups:      len(groups),
		Teachers:    len(teachers),
		Dates:       len(dates),
		Subjects:    len(subjects),
		TimeSlots:   len(slots),
		EmptyFields: empty,
		Duplicates:  duplicates,
	}
}

func countEmpty(counters map[string]int, field, value string) {
	if strings.TrimSpace(value) == "" {
		counters[field]++
	}
}
