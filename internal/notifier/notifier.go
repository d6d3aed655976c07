package notifier

import (
	"github.com/mbriand/rdvwatch/internal/logger"
	"github.com/mbriand/rdvwatch/internal/telegram"
)

// Notifier delivers one formatted availability message.
type Notifier interface {
	Notify(message string) error
}

// New picks the delivery channel: Telegram when credentials are present,
// otherwise the console. Missing credentials degrade to printing, never to
// a failure.
func New(botToken, chatID string) Notifier {
	if botToken == "" || chatID == "" {
		logger.Info("telegram credentials missing, printing to console instead", nil)
		return NewConsoleNotifier()
	}
	client, err := telegram.NewClient(botToken, chatID)
	if err != nil {
		logger.Warn("telegram client unavailable, printing to console instead", logger.Fields{
			"error": err.Error(),
		})
		return NewConsoleNotifier()
	}
	return &TelegramNotifier{client: client}
}

// TelegramNotifier delivers messages through the Telegram Bot API.
type TelegramNotifier struct {
	client *telegram.Client
}

// NewTelegramNotifier wraps an existing Telegram client.
func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

// Notify sends the message to the configured chat.
func (n *TelegramNotifier) Notify(message string) error {
	return n.client.SendMessage(message)
}
