package telegram

import (
	"fmt"
	"time"

	"campus_event_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// NewBot builds the Telegram bot. With a webhook URL configured the bot receives updates
// through the returned Webhook, which must be mounted on the HTTP server. Otherwise it long
// polls and the Webhook is nil.
func NewBot(cfg *config.AppConfig, logger *logrus.Entry) (*telebot.Bot, *telebot.Webhook, error) {
	var poller telebot.Poller = &telebot.LongPoller{Timeout: 10 * time.Second}
	var webhook *telebot.Webhook
	if cfg.TelegramWebhookURL != "" {
		webhook = &telebot.Webhook{
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.TelegramWebhookURL},
		}
		poller = webhook
	}

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: poller,
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"chat_id": c.Chat().ID,
					"text":    c.Text(),
				})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return bot, webhook, nil
}
