package domain

import "fmt"

// DateLayout — текстовый формат даты в исходной таблице (dd.mm.yyyy).
const DateLayout = "02.01.2006"

// TimeSlots — фиксированная сетка пар календаря. Поле time занятия обязано
// совпадать с одним из слотов строково, интервалы не интерпретируются.
var TimeSlots = []string{
	"08.30 - 10.00",
	"10.10 - 11.40",
	"12.10 - 13.40",
	"13.50 - 15.20",
	"15.30 - 17.00",
	"17.10 - 18.40",
	"18.50 - 20.20",
	"20.30 - 22.00",
}

// DayTokens — допустимые токены дня недели. Сопоставление идёт по вхождению
// подстроки в нижнем регистре, чтобы переживать хвосты вида "(праздник)".
var DayTokens = []string{"пн", "вт", "ср", "чт", "пт", "сб"}

// FilterField перечисляет поля занятия, по которым API умеет фильтровать
// и сортировать. Замена динамического доступа по строковому ключу:
// каждый вариант имеет явный аксессор.
type FilterField int

const (
	FilterGroup FilterField = iota
	FilterDayOfWeek
	FilterDate
	FilterTime
	FilterSubject
	FilterLessonType
	FilterTeacher
	FilterClassroom
)

// ParseFilterField разбирает имя поля из параметра запроса.
func ParseFilterField(name string) (FilterField, error) {
	switch name {
	case "group":
		return FilterGroup, nil
	case "dayOfWeek":
		return FilterDayOfWeek, nil
	case "date":
		return FilterDate, nil
	case "time":
		return FilterTime, nil
	case "subject":
		return FilterSubject, nil
	case "lessonType":
		return FilterLessonType, nil
	case "teacher":
		return FilterTeacher, nil
	case "classroom":
		return FilterClassroom, nil
	}
	return 0, fmt.Errorf("неизвестное поле фильтра: %q", name)
}

// Value возвращает значение соответствующего поля занятия.
func (f FilterField) Value(l Lesson) string {
	switch f {
	case FilterGroup:
		return l.Group
	case FilterDayOfWeek:
		return l.DayOfWeek
	case FilterDate:
		return l.Date
	case FilterTime:
		return l.Time
	case FilterSubject:
		return l.Subject
	case FilterLessonType:
		return l.LessonType
	case FilterTeacher:
		return l.Teacher
	case FilterClassroom:
		return l.Classroom
	}
	return ""
}
