// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"campus_event_bot/internal/app"
	"campus_event_bot/internal/domain/messenger"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements messenger.Sender using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Send delivers an HTML message to a numeric chat id.
func (tba *TelebotAdapter) Send(_ context.Context, recipient string, message string) error {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", recipient, err)
	}
	_, err = tba.bot.Send(telebot.ChatID(chatID), message, &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	if err != nil {
		return fmt.Errorf("telegram send to %d failed: %w", chatID, err)
	}
	return nil
}

// sendOptions renders a chat reply's keyboard as raw inline buttons so callback data arrives
// unchanged at the OnCallback handler.
func sendOptions(reply app.Reply) *telebot.SendOptions {
	opts := &telebot.SendOptions{ParseMode: telebot.ModeHTML}
	if len(reply.Buttons) == 0 {
		return opts
	}
	keyboard := make([][]telebot.InlineButton, 0, len(reply.Buttons))
	for _, row := range reply.Buttons {
		buttons := make([]telebot.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, telebot.InlineButton{Text: b.Text, Data: b.Data})
		}
		keyboard = append(keyboard, buttons)
	}
	opts.ReplyMarkup = &telebot.ReplyMarkup{InlineKeyboard: keyboard}
	return opts
}

// chatRecipient is the router address of the chat a context belongs to.
func chatRecipient(c telebot.Context) string {
	return messenger.ChannelTelegram + ":" + strconv.FormatInt(c.Chat().ID, 10)
}
