package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatbot(t *testing.T) (*ChatbotService, *testEnv) {
	env := newTestEnv(t, "")
	return NewChatbotService(env.events, env.reminders, "http://localhost:3000", testLogger()), env
}

func TestChatbotService_TelegramMessage(t *testing.T) {
	bot, _ := newTestChatbot(t)
	ctx := context.Background()

	tests := []struct {
		text string
		want string
	}{
		{"I want to add event", msgAddEvent},
		{"SAVE EVENT please", msgAddEvent},
		{"remind me", msgRemindHowTo},
		{"reminder", msgRemindHowTo},
		{"show events", msgNoEvents},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			reply := bot.TelegramMessage(ctx, tt.text)
			assert.Equal(t, tt.want, reply.Text)
			assert.Nil(t, reply.Buttons)
		})
	}

	reply := bot.TelegramMessage(ctx, "delete event")
	assert.Contains(t, reply.Text, "href='http://localhost:3000'")

	reply = bot.TelegramMessage(ctx, "hello there")
	assert.Equal(t, msgTelegramHello, reply.Text)
	require.Len(t, reply.Buttons, 4)
	assert.Equal(t, CallbackAddEvent, reply.Buttons[0][0].Data)
	assert.Equal(t, CallbackShowEvents, reply.Buttons[1][0].Data)
	assert.Equal(t, CallbackSetReminder, reply.Buttons[2][0].Data)
	assert.Equal(t, CallbackHelp, reply.Buttons[3][0].Data)
}

func TestChatbotService_EventListing(t *testing.T) {
	bot, env := newTestChatbot(t)
	ctx := context.Background()
	env.createEvent(t, "Tech & Talk", "10 March 2026", "2:30pm")
	env.createEvent(t, "Robotics Demo", "5 March 2026", "9am")
	env.createEvent(t, "Old Fair", "1 February 2026", "9am")

	reply := bot.TelegramMessage(ctx, "Show events")
	assert.Contains(t, reply.Text, "1. <b>Robotics Demo</b>")
	assert.Contains(t, reply.Text, "2. <b>Tech &amp; Talk</b>")
	assert.Contains(t, reply.Text, "📍 Student Center Hall")
	assert.NotContains(t, reply.Text, "Old Fair", "past events are not listed")

	reply = bot.TelegramCallback(ctx, CallbackShowEvents)
	assert.Contains(t, reply.Text, "1. <b>Robotics Demo</b>")
	assert.NotContains(t, reply.Text, "📍")

	text := bot.WhatsAppMessage(ctx, "  List Events ")
	assert.Contains(t, text, "1. <b>Robotics Demo</b>")
	assert.Contains(t, text, "Type 'help'")
}

func TestChatbotService_TelegramCallback(t *testing.T) {
	bot, _ := newTestChatbot(t)
	ctx := context.Background()

	assert.Equal(t, msgAddCallback, bot.TelegramCallback(ctx, CallbackAddEvent).Text)
	assert.Equal(t, msgTelegramHelp, bot.TelegramCallback(ctx, CallbackHelp).Text)
	assert.Contains(t, bot.TelegramCallback(ctx, CallbackSetReminder).Text, "30 minutes before")
	assert.Equal(t, msgUnknownAction, bot.TelegramCallback(ctx, "bogus").Text)
}

func TestChatbotService_WhatsAppMessage(t *testing.T) {
	bot, _ := newTestChatbot(t)
	ctx := context.Background()

	assert.Equal(t, msgWhatsAppHelp, bot.WhatsAppMessage(ctx, "HELP"))
	assert.Equal(t, msgWhatsAppHello, bot.WhatsAppMessage(ctx, "hi"))
	assert.Equal(t, msgNoEvents, bot.WhatsAppMessage(ctx, "show events"))
}

func TestChatbotService_Reminders(t *testing.T) {
	bot, env := newTestChatbot(t)
	ctx := context.Background()
	summit := env.createEvent(t, "Summit", "10 March 2026", "2:30pm")
	soon := env.createEvent(t, "Standup", "1 March 2026", "10:15am")

	assert.Contains(t, bot.SetReminder(ctx, "telegram:42", "abc"), "Usage")
	assert.Contains(t, bot.SetReminder(ctx, "telegram:42", "0"), "Usage")
	assert.Contains(t, bot.SetReminder(ctx, "telegram:42", "3"), "no event #3")

	// The listing is soonest first, so the standup is #1.
	assert.Contains(t, bot.SetReminder(ctx, "telegram:42", "1"), "too soon")
	_, ok := env.scheduler.Get(soon.ID)
	assert.False(t, ok)

	reply := bot.SetReminder(ctx, "telegram:42", " 2 ")
	assert.Contains(t, reply, "✅ Reminder set for <b>Summit</b>")
	assert.Contains(t, reply, "14:00 on 10 March")
	job, ok := env.scheduler.Get(summit.ID)
	require.True(t, ok)
	assert.Equal(t, "telegram:42", job.Recipient)

	assert.Contains(t, bot.ListReminders(), "• <b>Summit</b> at 14:00 on 10 March 2026")

	assert.Contains(t, bot.CancelReminder(ctx, "2"), "cancelled")
	assert.Contains(t, bot.CancelReminder(ctx, "2"), "No reminder was set")
	assert.Contains(t, bot.CancelReminder(ctx, "x"), "Usage")
	assert.Equal(t, "⏰ No reminders are set.", bot.ListReminders())
}
