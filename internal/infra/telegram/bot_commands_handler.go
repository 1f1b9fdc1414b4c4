// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"

	"campus_event_bot/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	chatbot *app.ChatbotService,
	baseLogger *logrus.Entry, // For contextual logging
) {
	commandLogger := baseLogger.WithField("handler_group", "commands")

	logCommand := func(c telebot.Context, command string) *logrus.Entry {
		logCtx := commandLogger.WithField("command", command).WithField("chat_id", c.Chat().ID)
		logCtx.Info("Processing command")
		return logCtx
	}

	b.Handle("/start", func(c telebot.Context) error {
		logCommand(c, "/start")
		reply := chatbot.Welcome()
		return c.Send(reply.Text, sendOptions(reply))
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCommand(c, "/help")
		reply := chatbot.TelegramCallback(ctx, app.CallbackHelp)
		return c.Send(reply.Text, sendOptions(reply))
	})

	b.Handle("/setreminder", func(c telebot.Context) error {
		logCommand(c, "/setreminder").WithField("payload", c.Message().Payload).Debug("Setting reminder")
		text := chatbot.SetReminder(ctx, chatRecipient(c), c.Message().Payload)
		return c.Send(text, telebot.ModeHTML)
	})

	b.Handle("/cancelreminder", func(c telebot.Context) error {
		logCommand(c, "/cancelreminder")
		text := chatbot.CancelReminder(ctx, c.Message().Payload)
		return c.Send(text, telebot.ModeHTML)
	})

	b.Handle("/reminders", func(c telebot.Context) error {
		logCommand(c, "/reminders")
		return c.Send(chatbot.ListReminders(), telebot.ModeHTML)
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		commandLogger.WithFields(logrus.Fields{
			"chat_id": c.Chat().ID,
			"text":    c.Text(),
		}).Debug("Text message received")
		reply := chatbot.TelegramMessage(ctx, c.Text())
		return c.Send(reply.Text, sendOptions(reply))
	})
}
