package app

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"campus_event_bot/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
)

// chatEventLimit is how many events a chat listing shows; /setreminder N indexes into it.
const chatEventLimit = 5

// Callback data carried by the welcome keyboard.
const (
	CallbackAddEvent    = "add_event"
	CallbackShowEvents  = "show_events"
	CallbackSetReminder = "set_reminder"
	CallbackHelp        = "help"
)

const (
	msgChatError     = "❌ An error occurred while processing your request."
	msgNoEvents      = "📅 <b>No upcoming events found.</b>"
	msgAddEvent      = "📝 <b>Add Event</b>\n\nTo add an event, please use our web dashboard or send details in this format:\n\n<code>Event: Title on Date at Time</code>"
	msgRemindHowTo   = "⏰ <b>Event Reminders</b>\n\nGet alerts before your events!\n\n💡 <i>Send /setreminder with the event number from the list</i>\n\nExample: <code>/setreminder 1</code>"
	msgTelegramHello = "👋 Welcome to Campus Event Chatbot!\n\n<b>Available Commands:</b>\n• /start - Start bot\n• Add event - (Web/Format)\n• Show events - View upcoming\n• /reminders - Your reminders\n• Help - Get help"
	msgAddCallback   = "📝 Please add events via our dashboard or use format:\n<code>Event: Title on Date at Time</code>"
	msgTelegramHelp  = "ℹ️ <b>How to use:</b>\n\n📌 <b>Adding Events:</b>\nUse Dashboard or Format: <code>Event: Title on Date at Time</code>\n\n📅 <b>Viewing Events:</b>\nMessage: <code>Show events</code>\n\n⏰ <b>Set Reminders:</b>\nMessage: <code>/setreminder 1</code>\n\n🔕 <b>Cancel Reminders:</b>\nMessage: <code>/cancelreminder 1</code>"
	msgUnknownAction = "Sorry, I didn't understand that."
	msgWhatsAppHelp  = "👋 <b>Campus Event Chatbot Help</b>\n\nTry these commands:\n- <b>Show events</b>: List upcoming events\n- <b>Add event</b>: (Web only currently)\n- <b>Contact</b>: Get support"
	msgWhatsAppHello = "👋 I'm here to help with campus events! Try sending:\n\n<b>Show events</b> - to see what's happening"
)

// Button is one inline keyboard button.
type Button struct {
	Text string
	Data string
}

// Reply is a chat answer in HTML markup, optionally with an inline keyboard.
type Reply struct {
	Text    string
	Buttons [][]Button
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

// ChatbotService answers chat messages from both bots with keyword dispatch.
type ChatbotService struct {
	events       *EventService
	reminders    *ReminderService
	dashboardURL string
	logger       *logrus.Entry
}

func NewChatbotService(events *EventService, reminders *ReminderService, dashboardURL string, logger *logrus.Entry) *ChatbotService {
	return &ChatbotService{
		events:       events,
		reminders:    reminders,
		dashboardURL: dashboardURL,
		logger:       logger,
	}
}

// TelegramMessage answers a free-text Telegram message.
func (s *ChatbotService) TelegramMessage(ctx context.Context, text string) Reply {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "add event"), strings.Contains(lower, "save event"):
		return textReply(msgAddEvent)
	case strings.Contains(lower, "show events"), strings.Contains(lower, "my events"):
		return textReply(s.eventList(ctx, true, "💡 <i>Use /setreminder [event_number] to get alerts!</i>"))
	case strings.Contains(lower, "delete event"):
		return textReply(fmt.Sprintf("🗑️ <b>Delete Event</b>\n\nPlease use the web dashboard to delete events: <a href='%s'>Open Dashboard</a>",
			html.EscapeString(s.dashboardURL)))
	case strings.Contains(lower, "remind"):
		return textReply(msgRemindHowTo)
	default:
		return s.Welcome()
	}
}

// Welcome is the greeting with the main inline keyboard.
func (s *ChatbotService) Welcome() Reply {
	return Reply{
		Text: msgTelegramHello,
		Buttons: [][]Button{
			{{Text: "Add Event", Data: CallbackAddEvent}},
			{{Text: "Show Events", Data: CallbackShowEvents}},
			{{Text: "Set Reminder", Data: CallbackSetReminder}},
			{{Text: "Help", Data: CallbackHelp}},
		},
	}
}

// TelegramCallback answers a press on one of the welcome keyboard buttons.
func (s *ChatbotService) TelegramCallback(ctx context.Context, data string) Reply {
	switch data {
	case CallbackAddEvent:
		return textReply(msgAddCallback)
	case CallbackShowEvents:
		return textReply(s.eventList(ctx, false, "💡 <i>Message '/setreminder 1' to set a reminder!</i>"))
	case CallbackSetReminder:
		return textReply(fmt.Sprintf("⏰ <b>Set Event Reminder</b>\n\nWhich event would you like a reminder for?\n\n<code>/setreminder 1</code>\n<code>/setreminder 2</code>\n\nYou'll get notified %d minutes before the event!",
			s.reminders.defaultLead))
	case CallbackHelp:
		return textReply(msgTelegramHelp)
	default:
		s.logger.WithField("data", data).Warn("Unhandled callback data")
		return textReply(msgUnknownAction)
	}
}

// WhatsAppMessage answers a WhatsApp text. The result uses the same HTML markup as the
// Telegram replies.
func (s *ChatbotService) WhatsAppMessage(ctx context.Context, text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(lower, "show events"), strings.Contains(lower, "list events"):
		return s.eventList(ctx, true, "💡 <i>Type 'help' for more options</i>")
	case strings.Contains(lower, "help"):
		return msgWhatsAppHelp
	default:
		return msgWhatsAppHello
	}
}

func (s *ChatbotService) eventList(ctx context.Context, withLocation bool, footer string) string {
	upcoming, err := s.events.Next(ctx, chatEventLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list events for chat")
		return msgChatError
	}
	if len(upcoming) == 0 {
		return msgNoEvents
	}

	var b strings.Builder
	b.WriteString("📅 <b>Upcoming Events:</b>\n\n")
	for i, u := range upcoming {
		e := u.Event
		fmt.Fprintf(&b, "%d. <b>%s</b>\n   🗓 %s at %s\n", i+1,
			html.EscapeString(e.Title), html.EscapeString(e.Date), html.EscapeString(e.Time))
		if withLocation {
			fmt.Fprintf(&b, "   📍 %s\n", html.EscapeString(e.Location))
		}
		b.WriteString("\n")
	}
	b.WriteString(footer)
	return b.String()
}

// SetReminder arms a reminder for the N-th event of the chat listing, delivered to recipient.
func (s *ChatbotService) SetReminder(ctx context.Context, recipient, arg string) string {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return "Usage: <code>/setreminder [event_number]</code>\nSend <code>Show events</code> to see the numbers."
	}

	upcoming, err := s.events.Next(ctx, chatEventLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list events for /setreminder")
		return msgChatError
	}
	if n > len(upcoming) {
		return fmt.Sprintf("⚠️ There is no event #%d. Send <code>Show events</code> to see the list.", n)
	}

	e := upcoming[n-1].Event
	title := html.EscapeString(e.Title)
	job, err := s.reminders.ScheduleReminder(e.ID, recipient, e.Date, e.Time, e.Title, 0)
	if err != nil {
		if errors.Is(err, scheduler.ErrReminderInPast) {
			return fmt.Sprintf("⚠️ <b>%s</b> starts in less than %d minutes, too soon for a reminder.", title, s.reminders.defaultLead)
		}
		s.logger.WithError(err).WithField("event_id", e.ID).Error("Failed to set reminder from chat")
		return msgChatError
	}

	s.logger.WithFields(logrus.Fields{"event_id": e.ID, "recipient": recipient}).Info("Reminder set from chat")
	return fmt.Sprintf("✅ Reminder set for <b>%s</b>!\nYou'll be notified %d minutes before, at %s.",
		title, job.LeadMinutes, job.FiresAt.Format("15:04 on 2 January"))
}

// CancelReminder disarms the reminder of the N-th event of the chat listing.
func (s *ChatbotService) CancelReminder(ctx context.Context, arg string) string {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return "Usage: <code>/cancelreminder [event_number]</code>"
	}

	upcoming, err := s.events.Next(ctx, chatEventLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list events for /cancelreminder")
		return msgChatError
	}
	if n > len(upcoming) {
		return fmt.Sprintf("⚠️ There is no event #%d. Send <code>Show events</code> to see the list.", n)
	}

	e := upcoming[n-1].Event
	if !s.reminders.CancelReminder(e.ID) {
		return fmt.Sprintf("ℹ️ No reminder was set for <b>%s</b>.", html.EscapeString(e.Title))
	}
	return fmt.Sprintf("🔕 Reminder for <b>%s</b> cancelled.", html.EscapeString(e.Title))
}

// ListReminders describes every armed reminder.
func (s *ChatbotService) ListReminders() string {
	jobs := s.reminders.ActiveReminders()
	if len(jobs) == 0 {
		return "⏰ No reminders are set."
	}

	var b strings.Builder
	b.WriteString("⏰ <b>Active Reminders:</b>\n\n")
	for _, job := range jobs {
		fmt.Fprintf(&b, "• <b>%s</b> at %s\n", html.EscapeString(job.Title), job.FiresAt.Format("15:04 on 2 January 2006"))
	}
	return b.String()
}
