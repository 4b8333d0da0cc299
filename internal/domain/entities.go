package domain

import (
	"strings"
	"time"
)

// Lesson описывает одно занятие из исходной таблицы расписания.
// Поля не валидируются при загрузке: запись с пустой или битой колонкой
// всё равно создаётся и уходит дальше по конвейеру.
type Lesson struct {
	ID         string `json:"id,omitempty"`
	Group      string `json:"group"`
	DayOfWeek  string `json:"dayOfWeek"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Subject    string `json:"subject"`
	LessonType string `json:"lessonType"`
	Teacher    string `json:"teacher"`
	Classroom  string `json:"classroom"`
}

// Key возвращает идентификационный ключ занятия для сравнения снапшотов.
// Если источник дал собственный ID, используется он, иначе — кортеж
// (дата, время, группа, предмет, преподаватель): он стабилен между
// перезагрузками и различает две параллельные пары одной группы
// у разных преподавателей.
func (l Lesson) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return strings.Join([]string{l.Date, l.Time, l.Group, l.Subject, l.Teacher}, "|")
}

// LessonChange хранит пару (старая, новая) для изменённого занятия.
type LessonChange struct {
	Old Lesson `json:"old"`
	New Lesson `json:"new"`
}

// ChangeSet — результат сравнения двух снапшотов расписания.
type ChangeSet struct {
	Added    []Lesson       `json:"added"`
	Removed  []Lesson       `json:"removed"`
	Modified []LessonChange `json:"modified"`
}

// Empty сообщает, что сравнение не нашло отличий.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Total возвращает суммарное количество отличий.
func (c ChangeSet) Total() int {
	return len(c.Added) + len(c.Removed) + len(c.Modified)
}

// VisibilityIssue — одна запись, которая не пройдёт в календарную сетку,
// с номером строки в источнике (с единицы) и списком причин.
type VisibilityIssue struct {
	Lesson   Lesson   `json:"lesson"`
	Position int      `json:"position"`
	Reasons  []string `json:"reasons"`
}

// DuplicateKey описывает идентификационный ключ, встреченный в снапшоте
// более одного раза.
type DuplicateKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ScheduleStats — сводка по снапшоту для диагностического отчёта.
type ScheduleStats struct {
	Total       int            `json:"total"`
	Groups      int            `json:"groups"`
	Teachers    int            `json:"teachers"`
	Dates       int            `json:"dates"`
	Subjects    int            `json:"subjects"`
	TimeSlots   int            `json:"timeSlots"`
	EmptyFields map[string]int `json:"emptyFields"`
	Duplicates  []DuplicateKey `json:"duplicates"`
}

// Snapshot — одна полная загрузка расписания в момент времени.
type Snapshot struct {
	Lessons  []Lesson  `json:"lessons"`
	LoadedAt time.Time `json:"loadedAt"`
}
