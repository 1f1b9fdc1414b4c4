package httpapi

import (
	"encoding/json"
	"time"

	"campus_event_bot/internal/app"
	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/domain/reminder"
)

// eventJSON keeps the dashboard's field names ("_id", camelCase).
type eventJSON struct {
	ID               string     `json:"_id"`
	Title            string     `json:"title"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Category         string     `json:"category"`
	Attendees        int        `json:"attendees"`
	Image            string     `json:"image"`
	RegistrationLink string     `json:"registrationLink"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	StartsAt         *time.Time `json:"startsAt,omitempty"`
}

func toEventJSON(e *event.Event) eventJSON {
	return eventJSON{
		ID:               e.ID,
		Title:            e.Title,
		Date:             e.Date,
		Time:             e.Time,
		Description:      e.Description,
		Location:         e.Location,
		Category:         string(e.Category),
		Attendees:        e.Attendees,
		Image:            e.Image,
		RegistrationLink: e.RegistrationLink,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toEventList(events []*event.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, toEventJSON(e))
	}
	return out
}

func toScheduledList(events []app.ScheduledEvent) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, se := range events {
		j := toEventJSON(se.Event)
		startsAt := se.StartsAt
		j.StartsAt = &startsAt
		out = append(out, j)
	}
	return out
}

// eventInput is the create/update body. Pointers tell absent fields from empty ones.
type eventInput struct {
	Title            *string `json:"title"`
	Date             *string `json:"date"`
	Time             *string `json:"time"`
	Description      *string `json:"description"`
	Location         *string `json:"location"`
	Category         *string `json:"category"`
	Attendees        *int    `json:"attendees"`
	Image            *string `json:"image"`
	RegistrationLink *string `json:"registrationLink"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (in eventInput) toEvent() *event.Event {
	e := &event.Event{
		Title:            deref(in.Title),
		Date:             deref(in.Date),
		Time:             deref(in.Time),
		Description:      deref(in.Description),
		Location:         deref(in.Location),
		Category:         event.Category(deref(in.Category)),
		Image:            deref(in.Image),
		RegistrationLink: deref(in.RegistrationLink),
	}
	if in.Attendees != nil {
		e.Attendees = *in.Attendees
	}
	return e
}

func (in eventInput) toChanges() app.EventChanges {
	return app.EventChanges{
		Title:            in.Title,
		Date:             in.Date,
		Time:             in.Time,
		Description:      in.Description,
		Location:         in.Location,
		Category:         in.Category,
		Attendees:        in.Attendees,
		Image:            in.Image,
		RegistrationLink: in.RegistrationLink,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// chatID accepts both JSON strings and numbers; Telegram chat ids arrive as numbers.
type chatID string

func (c *chatID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = chatID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = chatID(n.String())
	return nil
}

type reminderRequest struct {
	ChatID        chatID `json:"chatId"`
	MinutesBefore int    `json:"minutesBefore"`
}

type reminderJSON struct {
	EventID     string    `json:"eventId"`
	Title       string    `json:"title"`
	Recipient   string    `json:"recipient"`
	FiresAt     time.Time `json:"firesAt"`
	LeadMinutes int       `json:"leadMinutes"`
}

func toReminderJSON(j reminder.Job) reminderJSON {
	return reminderJSON{
		EventID:     j.EventID,
		Title:       j.Title,
		Recipient:   j.Recipient,
		FiresAt:     j.FiresAt,
		LeadMinutes: j.LeadMinutes,
	}
}
