// Package diff сравнивает два снапшота расписания и находит
// добавленные, отменённые и изменённые занятия.
package diff

import "rgsu-schedule/internal/domain"

// Diff сравнивает предыдущий и текущий снапшоты по идентификационному ключу.
// Тотальная функция: битые записи просто сравниваются поле в поле и никогда
// не приводят к ошибке. Порядок элементов результата повторяет порядок обхода
// входных срезов.
//
// Дубликаты ключа внутри одного снапшота схлопываются до последней встреченной
// записи (last-write-wins); сами дубликаты видны через visibility.BuildStats.
func Diff(previous, current []domain.Lesson) domain.ChangeSet {
	prevByKey := indexByKey(previous)
	currByKey := indexByKey(current)

	var cs domain.ChangeSet
	for _, lesson := range current {
		old, ok := prevByKey[lesson.Key()]
		if !ok {
			cs.Added = append(cs.Added, lesson)
			continue
		}
		if contentChanged(old, lesson) {
			cs.Modified = append(cs.Modified, domain.LessonChange{Old: old, New: lesson})
		}
	}
	for _, lesson := range previous {
		if _, ok := currByKey[lesson.Key()]; !ok {
			cs.Removed = append(cs.Removed, lesson)
		}
	}
	return cs
}

func indexByKey(lessons []domain.Lesson) map[string]domain.Lesson {
	byKey := make(map[string]domain.Lesson, len(lessons))
	for _, lesson := range lessons {
		byKey[lesson.Key()] = lesson
	}
	return byKey
}

// contentChanged сравнивает только содержательные поля: группа, дата и время
// входят в ключ и по построению совпадают у старой и новой записи.
func contentChanged(old, curr domain.Lesson) bool {
	return old.Subject != curr.Subject ||
		old.Teacher != curr.Teacher ||
		old.Classroom != curr.Classroom ||
		old.LessonType != curr.LessonType
}
