package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"rgsu-schedule/internal/domain"
)

// SheetsSource читает расписание из Google-таблицы по фиксированному
// диапазону через сервисный аккаунт.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// SheetsConfig — параметры подключения к таблице. PrivateKey приходит из
// окружения с экранированными переводами строк, их нужно развернуть.
type SheetsConfig struct {
	SpreadsheetID string
	ReadRange     string
	ClientEmail   string
	PrivateKey    string
}

// NewSheetsSource создаёт источник с авторизацией сервисным аккаунтом.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("не задан идентификатор таблицы")
	}
	creds, err := serviceAccountJSON(cfg.ClientEmail, cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("инициализация Sheets API: %w", err)
	}
	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = "A2:H"
	}
	return &SheetsSource{svc: svc, spreadsheetID: cfg.SpreadsheetID, readRange: readRange}, nil
}

// Load запрашивает диапазон и раскладывает строки по тем же восьми колонкам,
// что и файловый вариант. Пустой ответ — пустой срез без ошибки.
func (s *SheetsSource) Load(ctx context.Context) ([]domain.Lesson, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("чтение таблицы: %w", err)
	}
	if len(resp.Values) == 0 {
		return []domain.Lesson{}, nil
	}

	lessons := make([]domain.Lesson, 0, len(resp.Values))
	for _, row := range resp.Values {
		cols := make([]string, len(row))
		for i, v := range row {
			cols[i] = fmt.Sprint(v)
		}
		lessons = append(lessons, lessonFromRow(cols))
	}
	return lessons, nil
}

func serviceAccountJSON(clientEmail, privateKey string) ([]byte, error) {
	if clientEmail == "" || privateKey == "" {
		return nil, fmt.Errorf("не заданы учётные данные сервисного аккаунта")
	}
	creds := map[string]string{
		"type":         "service_account",
		"client_email": clientEmail,
		"private_key":  strings.ReplaceAll(privateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	}
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("сборка учётных данных: %w", err)
	}
	return payload, nil
}
