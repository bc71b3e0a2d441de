package notifier

import (
	"context"
	"fmt"

	"stockwatch/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a Telegram-backed notifier.
func NewTelegramNotifier(cfg config.Telegram) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.ChatID,
	}, nil
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

func (t *TelegramNotifier) Send(_ context.Context, subject, body string) error {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("%s\n\n%s", subject, body))
	_, err := t.bot.Send(msg)
	return err
}
