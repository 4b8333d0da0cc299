// Package schedule отвечает за выдачу снапшота расписания: сквозное чтение
// через кэш, выборка по группе или преподавателю, сортировка для таблицы.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rgsu-schedule/internal/domain"
)

// Service реализует бизнес-логику выдачи расписания.
type Service struct {
	source   domain.ScheduleSource
	cache    domain.Cache
	cacheKey string
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewService создаёт сервис. Кэш опционален: с nil каждая выдача идёт
// напрямую в источник.
func NewService(source domain.ScheduleSource, cache domain.Cache, cacheKey string, cacheTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{source: source, cache: cache, cacheKey: cacheKey, cacheTTL: cacheTTL, log: log}
}

// Snapshot возвращает текущий снапшот сквозь кэш. Промах или битое значение
// в кэше приводят к честной загрузке из источника; ошибки кэша выдачу не
// ломают, только логируются. Ошибка источника пробрасывается без изменений:
// пустой снапшот и недоступный источник — разные исходы.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Lesson, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, s.cacheKey); err == nil && len(payload) > 0 {
			var cached domain.Snapshot
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached.Lessons, nil
			}
			s.log.Warn().Msg("schedule: битый снапшот в кэше, перечитываем источник")
		}
	}
	return s.Fresh(ctx)
}

// Fresh загружает снапшот из источника в обход кэша и обновляет кэш.
func (s *Service) Fresh(ctx context.Context) ([]domain.Lesson, error) {
	lessons, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("загрузка расписания: %w", err)
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}
	if s.cache != nil {
		snap := domain.Snapshot{Lessons: lessons, LoadedAt: time.Now().UTC()}
		payload, err := json.Marshal(snap)
		if err == nil {
			err = s.cache.Set(ctx, s.cacheKey, payload, s.cacheTTL)
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("schedule: не удалось обновить кэш снапшота")
		}
	}
	return lessons, nil
}

// Filter оставляет занятия, у которых значение поля совпадает с value
// без учёта регистра. Пустой value возвращает вход как есть.
func Filter(lessons []domain.Lesson, field domain.FilterField, value string) []domain.Lesson {
	if value == "" {
		return lessons
	}
	out := make([]domain.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if strings.EqualFold(field.Value(l), value) {
			out = append(out, l)
		}
	}
	return out
}

// SortBy устойчиво сортирует копию списка по значению поля. Исходный срез
// не трогается: у каждого вызова своя копия, чтобы не было случайного
// алиасинга с кэшем.
func SortBy(lessons []domain.Lesson, field domain.FilterField) []domain.Lesson {
	out := make([]domain.Lesson, len(lessons))
	copy(out, lessons)
	sort.SliceStable(out, func(i, j int) bool {
		return field.Value(out[i]) < field.Value(out[j])
	})
	return out
}

// ForFeed выбирает занятия для календарного фида: по группе, либо по
// преподавателю при byTeacher.
func ForFeed(lessons []domain.Lesson, name string, byTeacher bool) []domain.Lesson {
	field := domain.FilterGroup
	if byTeacher {
		field = domain.FilterTeacher
	}
	return Filter(lessons, field, name)
}
