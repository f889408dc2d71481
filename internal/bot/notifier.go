package bot

import (
	"context"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// TelegramNotifier adapts the Bot API client to the services notification
// contract. The context is accepted for interface symmetry; the underlying
// client has no context-aware send.
type TelegramNotifier struct {
	api Client
}

func NewTelegramNotifier(api Client) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

func (n *TelegramNotifier) Send(_ context.Context, chatID int64, text string) error {
	_, err := n.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
