package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

type chatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts the notification text to the dispatch chat.
type Telegram struct {
	bot    chatSender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Notify(_ context.Context, n Notification) error {
	if n.Text == "" || t.chatID == 0 {
		return nil
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, n.Text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
