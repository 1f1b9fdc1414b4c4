// internal/app/reminder_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/domain/eventtime"
	"campus_event_bot/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

// ErrNoRecipient is returned when a reminder has nobody to go to.
var ErrNoRecipient = errors.New("no reminder recipient given and no default configured")

// ReminderScheduler is the job table the service arms reminders in.
type ReminderScheduler interface {
	Schedule(eventID, recipient string, eventAt time.Time, title string, leadMinutes int) (*reminder.Job, error)
	Cancel(eventID string) bool
	ListActive() []string
	Get(eventID string) (reminder.Job, bool)
}

// ReminderService turns stored events into armed reminders.
type ReminderService struct {
	parser           *eventtime.Parser
	scheduler        ReminderScheduler
	eventRepo        event.Repository
	defaultRecipient string
	defaultLead      int
	logger           *logrus.Entry
}

func NewReminderService(
	parser *eventtime.Parser,
	scheduler ReminderScheduler,
	eventRepo event.Repository,
	defaultRecipient string,
	defaultLead int,
	logger *logrus.Entry,
) *ReminderService {
	if defaultLead <= 0 {
		defaultLead = reminder.DefaultLeadMinutes
	}
	return &ReminderService{
		parser:           parser,
		scheduler:        scheduler,
		eventRepo:        eventRepo,
		defaultRecipient: defaultRecipient,
		defaultLead:      defaultLead,
		logger:           logger,
	}
}

// ScheduleReminder parses the event's date and time and arms a reminder leadMinutes before
// it. A zero or negative lead means the configured default; an empty recipient means the
// configured default recipient.
func (s *ReminderService) ScheduleReminder(eventID, recipient, dateStr, timeStr, title string, leadMinutes int) (*reminder.Job, error) {
	if leadMinutes <= 0 {
		leadMinutes = s.defaultLead
	}
	if recipient == "" {
		recipient = s.defaultRecipient
	}
	if recipient == "" {
		return nil, ErrNoRecipient
	}

	at, err := s.parser.Parse(dateStr, timeStr)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"event_id": eventID,
			"date":     dateStr,
			"time":     timeStr,
		}).Warn("Could not parse event date/time")
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}

	return s.scheduler.Schedule(eventID, recipient, at, title, leadMinutes)
}

// ScheduleEventReminder loads the event and arms its reminder.
func (s *ReminderService) ScheduleEventReminder(ctx context.Context, eventID, recipient string, leadMinutes int) (*event.Event, *reminder.Job, error) {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.ScheduleReminder(e.ID, recipient, e.Date, e.Time, e.Title, leadMinutes)
	if err != nil {
		return e, nil, err
	}
	return e, job, nil
}

// CancelReminder reports whether a reminder was armed for eventID.
func (s *ReminderService) CancelReminder(eventID string) bool {
	return s.scheduler.Cancel(eventID)
}

func (s *ReminderService) ListActiveReminders() []string {
	return s.scheduler.ListActive()
}

// ActiveReminders returns the armed jobs in event id order.
func (s *ReminderService) ActiveReminders() []reminder.Job {
	ids := s.scheduler.ListActive()
	jobs := make([]reminder.Job, 0, len(ids))
	for _, id := range ids {
		if job, ok := s.scheduler.Get(id); ok { // may have fired in between
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Rearm moves an armed reminder to the event's current date and time. Events without a
// reminder are left alone. If the new date cannot be parsed or is too close, the old
// reminder is dropped.
func (s *ReminderService) Rearm(e *event.Event) {
	job, ok := s.scheduler.Get(e.ID)
	if !ok {
		return
	}
	log := s.logger.WithField("event_id", e.ID)
	if _, err := s.ScheduleReminder(e.ID, job.Recipient, e.Date, e.Time, e.Title, job.LeadMinutes); err != nil {
		s.scheduler.Cancel(e.ID)
		log.WithError(err).Warn("Reminder dropped after event update")
		return
	}
	log.Info("Reminder moved after event update")
}

// BulkArm arms a reminder for every event that parses and is far enough in the future.
// A failing event never stops the others. It returns how many reminders were armed.
func (s *ReminderService) BulkArm(events []*event.Event, recipient string, leadMinutes int) int {
	s.logger.Infof("Scheduling reminders for %d events...", len(events))

	armed := 0
	for _, e := range events {
		log := s.logger.WithFields(logrus.Fields{
			"event_id": e.ID,
			"title":    e.Title,
		})
		if _, err := s.ScheduleReminder(e.ID, recipient, e.Date, e.Time, e.Title, leadMinutes); err != nil {
			log.WithError(err).Debug("Skipping event")
			continue
		}
		armed++
	}

	s.logger.Infof("Scheduled reminders for %d of %d events", armed, len(events))
	return armed
}

// ArmStoredEvents re-arms reminders for everything in the event store. The job table does
// not survive a restart, so this runs once at startup.
func (s *ReminderService) ArmStoredEvents(ctx context.Context) (int, error) {
	if s.defaultRecipient == "" {
		s.logger.Warn("No default reminder recipient configured. Skipping startup reminders.")
		return 0, nil
	}
	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list events for reminders: %w", err)
	}
	return s.BulkArm(events, s.defaultRecipient, s.defaultLead), nil
}
