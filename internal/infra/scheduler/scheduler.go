package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"sync"
	"time"

	"campus_event_bot/internal/domain/messenger"
	"campus_event_bot/internal/domain/reminder"

	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrReminderInPast is returned when event time minus lead time is not after now.
var ErrReminderInPast = errors.New("reminder time already passed")

const defaultSendTimeout = 30 * time.Second

// onceSchedule is a cron.Schedule that yields a single activation. cron only calls Next
// from its run goroutine.
type onceSchedule struct {
	at        time.Time
	handedOut bool
}

func (s *onceSchedule) Next(t time.Time) time.Time {
	// An instant that became due while the entry was being added still fires once.
	if t.Before(s.at) || !s.handedOut {
		s.handedOut = true
		return s.at
	}
	return time.Time{} // cron never runs an entry whose next time is zero
}

func newCronEngine(loc *time.Location, logger *logrus.Entry) *cron.Cron {
	cronLogger := cron.PrintfLogger(logger)
	return cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	)
}

type armedJob struct {
	job     reminder.Job
	entryID cron.EntryID
}

// ReminderScheduler arms one-shot reminders keyed by event id. At most one reminder per
// event is armed at any time.
type ReminderScheduler struct {
	cronEngine  *cron.Cron
	sender      messenger.Sender
	clock       clock.Clock
	logger      *logrus.Entry
	sendTimeout time.Duration

	mu   sync.Mutex
	jobs map[string]*armedJob
}

// Option configures a ReminderScheduler.
type Option func(*ReminderScheduler)

// WithClock replaces the clock used to decide whether a reminder is already due.
// Armed reminders still fire on wall-clock time: cron reads time.Now itself.
func WithClock(clk clock.Clock) Option {
	return func(s *ReminderScheduler) { s.clock = clk }
}

// WithLocation sets the location of the underlying cron engine.
func WithLocation(loc *time.Location) Option {
	return func(s *ReminderScheduler) {
		s.cronEngine = newCronEngine(loc, s.logger)
	}
}

// WithSendTimeout bounds how long a single notification send may take.
func WithSendTimeout(d time.Duration) Option {
	return func(s *ReminderScheduler) { s.sendTimeout = d }
}

func NewReminderScheduler(sender messenger.Sender, logger *logrus.Entry, opts ...Option) *ReminderScheduler {
	s := &ReminderScheduler{
		sender:      sender,
		clock:       clock.New(),
		logger:      logger,
		sendTimeout: defaultSendTimeout,
		jobs:        make(map[string]*armedJob),
	}
	s.cronEngine = newCronEngine(time.Local, logger) // server's local time, like the parser
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReminderScheduler) Start() {
	s.logger.Info("Starting reminder scheduler...")
	s.cronEngine.Start()
	s.logger.Info("Reminder scheduler started.")
}

// Stop halts the cron engine and waits for reminders that are currently being sent.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}

// Schedule arms a reminder leadMinutes before eventAt, replacing any reminder already armed
// for eventID. It returns ErrReminderInPast, without arming anything, when the fire time is
// not after now.
func (s *ReminderScheduler) Schedule(eventID, recipient string, eventAt time.Time, title string, leadMinutes int) (*reminder.Job, error) {
	log := s.logger.WithFields(logrus.Fields{
		"event_id":  eventID,
		"recipient": recipient,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[eventID]; ok {
		s.releaseLocked(eventID, existing)
		log.Info("Replaced existing reminder")
	}

	firesAt := eventAt.Add(-time.Duration(leadMinutes) * time.Minute)
	if !firesAt.After(s.clock.Now()) {
		log.WithField("fires_at", firesAt).Warn("Reminder time already passed")
		return nil, ErrReminderInPast
	}

	armed := &armedJob{
		job: reminder.Job{
			EventID:     eventID,
			FiresAt:     firesAt,
			Recipient:   recipient,
			Title:       title,
			LeadMinutes: leadMinutes,
			Status:      reminder.StatusScheduled,
		},
	}
	armed.entryID = s.cronEngine.Schedule(&onceSchedule{at: firesAt}, cron.FuncJob(func() {
		s.fire(armed)
	}))
	s.jobs[eventID] = armed

	log.WithField("fires_at", firesAt).Infof("Reminder scheduled for %q", title)
	job := armed.job
	return &job, nil
}

// Cancel disarms the reminder for eventID. It reports false when none was armed.
func (s *ReminderScheduler) Cancel(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[eventID]
	if !ok {
		return false
	}
	s.releaseLocked(eventID, existing)
	s.logger.WithField("event_id", eventID).Info("Reminder cancelled")
	return true
}

// ListActive returns the ids of events with an armed reminder, sorted.
func (s *ReminderScheduler) ListActive() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns a copy of the reminder armed for eventID.
func (s *ReminderScheduler) Get(eventID string) (reminder.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	armed, ok := s.jobs[eventID]
	if !ok {
		return reminder.Job{}, false
	}
	return armed.job, true
}

// releaseLocked removes the cron entry and the table row. Caller holds s.mu.
func (s *ReminderScheduler) releaseLocked(eventID string, armed *armedJob) {
	s.cronEngine.Remove(armed.entryID)
	armed.job.Status = reminder.StatusCancelled
	delete(s.jobs, eventID)
}

func (s *ReminderScheduler) fire(armed *armedJob) {
	s.mu.Lock()
	current, ok := s.jobs[armed.job.EventID]
	if !ok || current != armed {
		// replaced or cancelled after cron picked the entry up
		s.mu.Unlock()
		return
	}
	s.cronEngine.Remove(armed.entryID)
	armed.job.Status = reminder.StatusFired
	delete(s.jobs, armed.job.EventID)
	job := armed.job
	s.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"event_id":  job.EventID,
		"recipient": job.Recipient,
	})

	ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
	defer cancel()
	if err := s.sender.Send(ctx, job.Recipient, RenderReminder(job.Title, job.LeadMinutes)); err != nil {
		log.WithError(err).Errorf("Failed to send reminder for %q", job.Title)
		return
	}
	log.Infof("Reminder sent for %q", job.Title)
}

// RenderReminder builds the reminder text. Markup is HTML; transports convert it.
func RenderReminder(title string, leadMinutes int) string {
	return fmt.Sprintf("⏰ <b>Event Reminder!</b>\n\n📌 <b>%s</b>\n⏱️ Starting in %d minutes!\n\nDon't be late! 😊",
		html.EscapeString(title), leadMinutes)
}
