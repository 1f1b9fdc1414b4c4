package app

import (
	"context"
	"testing"
	"time"

	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/domain/eventtime"
	"campus_event_bot/internal/infra/database"
	"campus_event_bot/internal/infra/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_ScheduleReminder(t *testing.T) {
	env := newTestEnv(t, "telegram:42")

	job, err := env.reminders.ScheduleReminder("ev-1", "", "10 March 2026", "2:30pm", "Tech Summit", 0)
	require.NoError(t, err)
	assert.Equal(t, "telegram:42", job.Recipient, "empty recipient falls back to the default")
	assert.Equal(t, 30, job.LeadMinutes, "non-positive lead falls back to the default")
	assert.Equal(t, time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC), job.FiresAt)

	job, err = env.reminders.ScheduleReminder("ev-1", "whatsapp:15550001", "10 March 2026", "2:30pm", "Tech Summit", 60)
	require.NoError(t, err)
	assert.Equal(t, "whatsapp:15550001", job.Recipient)
	assert.Equal(t, time.Date(2026, time.March, 10, 13, 30, 0, 0, time.UTC), job.FiresAt)
	assert.Equal(t, []string{"ev-1"}, env.reminders.ListActiveReminders(), "rescheduling keeps a single job")
}

func TestReminderService_ScheduleReminderErrors(t *testing.T) {
	env := newTestEnv(t, "telegram:42")

	_, err := env.reminders.ScheduleReminder("ev-1", "", "someday soon", "2:30pm", "Summit", 30)
	assert.ErrorIs(t, err, eventtime.ErrNotParseable)

	_, err = env.reminders.ScheduleReminder("ev-2", "", "1 March 2026", "10:20am", "Summit", 30)
	assert.ErrorIs(t, err, scheduler.ErrReminderInPast)

	assert.Empty(t, env.reminders.ListActiveReminders())

	noDefault := newTestEnv(t, "")
	_, err = noDefault.reminders.ScheduleReminder("ev-1", "", "10 March 2026", "2:30pm", "Summit", 30)
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestReminderService_ScheduleEventReminder(t *testing.T) {
	env := newTestEnv(t, "telegram:42")
	ctx := context.Background()
	e := env.createEvent(t, "Tech Summit", "10 March 2026", "9:00 AM")

	got, job, err := env.reminders.ScheduleEventReminder(ctx, e.ID, "telegram:7", 15)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "Tech Summit", job.Title)
	assert.Equal(t, time.Date(2026, time.March, 10, 8, 45, 0, 0, time.UTC), job.FiresAt)

	_, _, err = env.reminders.ScheduleEventReminder(ctx, "missing", "", 15)
	assert.ErrorIs(t, err, database.ErrEventNotFound)
}

func TestReminderService_BulkArm(t *testing.T) {
	env := newTestEnv(t, "telegram:42")

	events := []*event.Event{
		{ID: "future", Title: "Summit", Date: "10 March 2026", Time: "9am"},
		{ID: "past", Title: "Freshers", Date: "10 February 2026", Time: "6pm"},
		{ID: "garbage", Title: "Mystery", Date: "sometime", Time: "later"},
		{ID: "too-close", Title: "Standup", Date: "1 March 2026", Time: "10:15am"},
		{ID: "later", Title: "Hackathon", Date: "April 5", Time: "8:00 AM"},
	}

	armed := env.reminders.BulkArm(events, "telegram:99", 30)
	assert.Equal(t, 2, armed)
	assert.Equal(t, []string{"future", "later"}, env.reminders.ListActiveReminders())

	job, ok := env.scheduler.Get("later")
	require.True(t, ok)
	assert.Equal(t, "telegram:99", job.Recipient)
}

func TestReminderService_ArmStoredEvents(t *testing.T) {
	env := newTestEnv(t, "telegram:42")
	ctx := context.Background()
	upcoming := env.createEvent(t, "Summit", "10 March 2026", "9am")
	env.createEvent(t, "Freshers", "10 October 2025", "6pm")

	armed, err := env.reminders.ArmStoredEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, armed)
	assert.Equal(t, []string{upcoming.ID}, env.reminders.ListActiveReminders())

	noDefault := newTestEnv(t, "")
	noDefault.createEvent(t, "Summit", "10 March 2026", "9am")
	armed, err = noDefault.reminders.ArmStoredEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, armed)
}

func TestReminderService_Rearm(t *testing.T) {
	env := newTestEnv(t, "telegram:42")

	e := &event.Event{ID: "ev-1", Title: "Summit", Date: "10 March 2026", Time: "9am"}
	env.reminders.Rearm(e)
	assert.Empty(t, env.reminders.ListActiveReminders(), "events without a reminder stay without one")

	_, err := env.reminders.ScheduleReminder(e.ID, "telegram:7", e.Date, e.Time, e.Title, 45)
	require.NoError(t, err)

	e.Date = "12 March 2026"
	e.Title = "Summit (moved)"
	env.reminders.Rearm(e)
	job, ok := env.scheduler.Get(e.ID)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 12, 8, 15, 0, 0, time.UTC), job.FiresAt)
	assert.Equal(t, "telegram:7", job.Recipient, "recipient survives the move")
	assert.Equal(t, 45, job.LeadMinutes)
	assert.Equal(t, "Summit (moved)", job.Title)

	e.Date = "not a date"
	env.reminders.Rearm(e)
	_, ok = env.scheduler.Get(e.ID)
	assert.False(t, ok, "unparseable update drops the reminder")
}

func TestReminderService_ActiveReminders(t *testing.T) {
	env := newTestEnv(t, "telegram:42")
	_, err := env.reminders.ScheduleReminder("b", "", "10 March 2026", "9am", "Second", 30)
	require.NoError(t, err)
	_, err = env.reminders.ScheduleReminder("a", "", "11 March 2026", "9am", "First", 30)
	require.NoError(t, err)

	jobs := env.reminders.ActiveReminders()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].EventID)
	assert.Equal(t, "b", jobs[1].EventID)

	assert.True(t, env.reminders.CancelReminder("a"))
	assert.False(t, env.reminders.CancelReminder("a"))
	assert.Len(t, env.reminders.ActiveReminders(), 1)
}
