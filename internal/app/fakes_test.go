package app

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/domain/eventtime"
	"campus_event_bot/internal/domain/reminder"
	"campus_event_bot/internal/infra/database"
	"campus_event_bot/internal/infra/scheduler"

	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// testNow is 1 March 2026, 10:00 UTC.
var testNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

// fakeScheduler keeps jobs in a map and applies the same past check as the real one.
type fakeScheduler struct {
	clk  clock.Clock
	mu   sync.Mutex
	jobs map[string]reminder.Job
}

func newFakeScheduler(clk clock.Clock) *fakeScheduler {
	return &fakeScheduler{clk: clk, jobs: make(map[string]reminder.Job)}
}

func (f *fakeScheduler) Schedule(eventID, recipient string, eventAt time.Time, title string, leadMinutes int) (*reminder.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, eventID)
	firesAt := eventAt.Add(-time.Duration(leadMinutes) * time.Minute)
	if !firesAt.After(f.clk.Now()) {
		return nil, scheduler.ErrReminderInPast
	}
	job := reminder.Job{
		EventID:     eventID,
		FiresAt:     firesAt,
		Recipient:   recipient,
		Title:       title,
		LeadMinutes: leadMinutes,
		Status:      reminder.StatusScheduled,
	}
	f.jobs[eventID] = job
	return &job, nil
}

func (f *fakeScheduler) Cancel(eventID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.jobs[eventID]
	delete(f.jobs, eventID)
	return ok
}

func (f *fakeScheduler) ListActive() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.jobs))
	for id := range f.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeScheduler) Get(eventID string) (reminder.Job, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[eventID]
	return job, ok
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type testEnv struct {
	clock     clock.FakeClock
	parser    *eventtime.Parser
	scheduler *fakeScheduler
	eventRepo *database.EventRepository
	userRepo  *database.UserRepository
	reminders *ReminderService
	events    *EventService
}

func newTestEnv(t *testing.T, defaultRecipient string) *testEnv {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	clk := clock.NewFake()
	clk.Set(testNow)

	env := &testEnv{
		clock:     clk,
		parser:    eventtime.NewParser(clk, eventtime.WithLocation(time.UTC)),
		scheduler: newFakeScheduler(clk),
		eventRepo: database.NewEventRepository(db),
		userRepo:  database.NewUserRepository(db),
	}
	env.reminders = NewReminderService(env.parser, env.scheduler, env.eventRepo, defaultRecipient, reminder.DefaultLeadMinutes, testLogger())
	env.events = NewEventService(env.eventRepo, env.reminders, env.parser, testLogger())
	return env
}

func (env *testEnv) createEvent(t *testing.T, title, date, tm string) *event.Event {
	t.Helper()
	e, err := env.events.Create(context.Background(), &event.Event{
		Title:    title,
		Date:     date,
		Time:     tm,
		Location: "Student Center Hall",
		Category: event.CategorySocial,
	})
	require.NoError(t, err)
	return e
}
