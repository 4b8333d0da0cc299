package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"rgsu-schedule/internal/domain"
	"rgsu-schedule/internal/infra/metrics"
)

// TelegramNotifier шлёт сводки изменений в настроенные чаты.
type TelegramNotifier struct {
	bot   *tgbotapi.BotAPI
	chats []int64
	log   zerolog.Logger
}

var _ domain.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier создаёт нотификатор.
func NewTelegramNotifier(bot *tgbotapi.BotAPI, chats []int64, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chats: chats, log: log}
}

// NotifyChanges форматирует ChangeSet и отправляет его во все чаты.
// Отказ одного чата не мешает остальным; возвращается последняя ошибка.
func (n *TelegramNotifier) NotifyChanges(ctx context.Context, cs domain.ChangeSet) error {
	text := FormatChanges(cs)
	if text == "" {
		return nil
	}

	var lastErr error
	for _, chatID := range n.chats {
		for _, part := range splitMessage(text) {
			msg := tgbotapi.NewMessage(chatID, part)
			msg.ParseMode = tgbotapi.ModeHTML
			msg.DisableWebPagePreview = true
			if _, err := n.bot.Send(msg); err != nil {
				metrics.NotifySendErrors.Inc()
				n.log.Error().Err(err).Int64("chat", chatID).Msg("notify: не удалось отправить сообщение")
				lastErr = fmt.Errorf("отправка в чат %d: %w", chatID, err)
			}
		}
	}
	return lastErr
}
