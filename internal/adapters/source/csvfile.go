// Package source содержит реализации domain.ScheduleSource: локальный
// файл с разделителями и удалённая Google-таблица. Обе отдают записи в
// порядке строк источника и ничего не валидируют.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rgsu-schedule/internal/domain"
)

// FileSource читает расписание из текстового файла с разделителями.
// Первая строка — заголовок, данные начинаются со второй.
type FileSource struct {
	path      string
	delimiter string
}

// NewFileSource создаёт источник. Пустой delimiter означает точку с запятой.
func NewFileSource(path, delimiter string) *FileSource {
	if delimiter == "" {
		delimiter = ";"
	}
	return &FileSource{path: path, delimiter: delimiter}
}

// Load читает файл целиком одним блокирующим вызовом и раскладывает строки
// по позициям колонок. Короткая строка дополняется пустыми значениями,
// а не отбрасывается. Отсутствующий файл — фатальная ошибка загрузки.
func (s *FileSource) Load(ctx context.Context) ([]domain.Lesson, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла расписания: %w", err)
	}

	text := strings.TrimRight(string(raw), "\r\n")
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return []domain.Lesson{}, nil
	}

	lessons := make([]domain.Lesson, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cols := strings.Split(strings.TrimRight(line, "\r"), s.delimiter)
		lessons = append(lessons, lessonFromRow(cols))
	}
	return lessons, nil
}

func lessonFromRow(cols []string) domain.Lesson {
	cell := func(i int) string {
		if i < len(cols) {
			return cols[i]
		}
		return ""
	}
	return domain.Lesson{
		Group:      cell(0),
		DayOfWeek:  cell(1),
		Date:       cell(2),
		Time:       cell(3),
		Subject:    cell(4),
		LessonType: cell(5),
		Teacher:    cell(6),
		Classroom:  cell(7),
	}
}
