package telegram

import (
	"context"

	"campus_event_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterCallbackHandlers answers presses on the welcome keyboard.
func RegisterCallbackHandlers(ctx context.Context, b *telebot.Bot, chatbot *app.ChatbotService, baseLogger *logrus.Entry) {
	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data
		baseLogger.WithFields(logrus.Fields{
			"handler": "callback",
			"data":    data,
			"chat_id": c.Chat().ID,
		}).Info("Button pressed")

		// Ack first to clear the button's loading state.
		if err := c.Respond(); err != nil {
			c.Bot().OnError(err, c)
		}
		reply := chatbot.TelegramCallback(ctx, data)
		return c.Send(reply.Text, sendOptions(reply))
	})
}
