package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEventService_CreateValidates(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		in   event.Event
	}{
		{"missing title", event.Event{Date: "10 March 2026", Time: "9am"}},
		{"blank title", event.Event{Title: "   ", Date: "10 March 2026", Time: "9am"}},
		{"title too long", event.Event{Title: strings.Repeat("x", 101), Date: "10 March 2026", Time: "9am"}},
		{"missing date", event.Event{Title: "Summit", Time: "9am"}},
		{"missing time", event.Event{Title: "Summit", Date: "10 March 2026"}},
		{"description too long", event.Event{Title: "Summit", Date: "10 March 2026", Time: "9am", Description: strings.Repeat("d", 501)}},
		{"unknown category", event.Event{Title: "Summit", Date: "10 March 2026", Time: "9am", Category: "Party"}},
		{"negative attendees", event.Event{Title: "Summit", Date: "10 March 2026", Time: "9am", Attendees: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			_, err := env.events.Create(ctx, &in)
			assert.ErrorIs(t, err, ErrInvalidEvent)
		})
	}

	created, err := env.events.Create(ctx, &event.Event{Title: " Summit ", Date: "10 March 2026", Time: "9am"})
	require.NoError(t, err)
	assert.Equal(t, "Summit", created.Title)
	assert.Equal(t, event.DefaultLocation, created.Location)
	assert.Equal(t, event.CategoryOther, created.Category)
}

func TestEventService_UpdateMovesReminder(t *testing.T) {
	env := newTestEnv(t, "telegram:42")
	ctx := context.Background()
	e := env.createEvent(t, "Summit", "10 March 2026", "9am")

	_, _, err := env.reminders.ScheduleEventReminder(ctx, e.ID, "", 30)
	require.NoError(t, err)

	updated, err := env.events.Update(ctx, e.ID, EventChanges{Time: strPtr("11:00 AM")})
	require.NoError(t, err)
	assert.Equal(t, "11:00 AM", updated.Time)
	assert.Equal(t, "Summit", updated.Title, "untouched fields are kept")

	job, ok := env.scheduler.Get(e.ID)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 10, 10, 30, 0, 0, time.UTC), job.FiresAt)

	_, err = env.events.Update(ctx, e.ID, EventChanges{Title: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = env.events.Update(ctx, "missing", EventChanges{Title: strPtr("x")})
	assert.ErrorIs(t, err, database.ErrEventNotFound)
}

func TestEventService_DeleteCancelsReminder(t *testing.T) {
	env := newTestEnv(t, "telegram:42")
	ctx := context.Background()
	e := env.createEvent(t, "Summit", "10 March 2026", "9am")

	_, _, err := env.reminders.ScheduleEventReminder(ctx, e.ID, "", 30)
	require.NoError(t, err)

	deleted, err := env.events.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summit", deleted.Title)
	assert.Empty(t, env.reminders.ListActiveReminders())

	_, err = env.events.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, database.ErrEventNotFound)
}

func TestEventService_Upcoming(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	later := env.createEvent(t, "Later this week", "5 March 2026", "9am")
	soon := env.createEvent(t, "Tomorrow", "March 2", "6:00 PM")
	env.createEvent(t, "Next month", "20 April 2026", "9am")
	env.createEvent(t, "Last month", "1 February 2026", "9am")
	env.createEvent(t, "Undated", "when we can", "9am")

	upcoming, err := env.events.Upcoming(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, soon.ID, upcoming[0].Event.ID)
	assert.Equal(t, time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC), upcoming[0].StartsAt)
	assert.Equal(t, later.ID, upcoming[1].Event.ID)

	next, err := env.events.Next(ctx, 5)
	require.NoError(t, err)
	require.Len(t, next, 3)
	assert.Equal(t, "Next month", next[2].Event.Title)

	next, err = env.events.Next(ctx, 1)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, soon.ID, next[0].Event.ID)
}

func TestEventService_Queries(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.createEvent(t, "Robotics Workshop", "5 March 2026", "9am")
	e, err := env.events.Create(ctx, &event.Event{Title: "Chess Club", Date: "6 March 2026", Time: "5pm", Category: event.CategoryAcademic})
	require.NoError(t, err)

	found, err := env.events.Search(ctx, "  robotics ")
	require.NoError(t, err)
	require.Len(t, found, 1)

	academic, err := env.events.ListByCategory(ctx, "Academic")
	require.NoError(t, err)
	require.Len(t, academic, 1)
	assert.Equal(t, e.ID, academic[0].ID)

	all, err := env.events.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := env.events.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", got.Title)
}
