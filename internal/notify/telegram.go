package notify

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier отправляет сообщения через Bot API.
// Блокировку бота пользователем не считаем ошибкой доставки.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := n.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err == nil {
		slog.Info("сообщение пользователю отправлено", "chat_id", chatID)
		return nil
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 403 {
		// Пользователь заблокировал бота — молча пропускаем.
		slog.Warn("сообщение не доставлено: бот заблокирован", "chat_id", chatID)
		return nil
	}

	return err
}
