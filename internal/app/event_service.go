package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/domain/eventtime"

	"github.com/sirupsen/logrus"
)

// ErrInvalidEvent wraps validation failures of event input.
var ErrInvalidEvent = errors.New("invalid event")

// EventChanges carries the fields of an update; nil fields are left as they are.
type EventChanges struct {
	Title            *string
	Date             *string
	Time             *string
	Description      *string
	Location         *string
	Category         *string
	Attendees        *int
	Image            *string
	RegistrationLink *string
}

// ScheduledEvent is an event together with its resolved start.
type ScheduledEvent struct {
	Event    *event.Event
	StartsAt time.Time
}

// EventService is the CRUD layer over the event store. It keeps armed reminders in step with
// event changes.
type EventService struct {
	eventRepo event.Repository
	reminders *ReminderService
	parser    *eventtime.Parser
	logger    *logrus.Entry
}

func NewEventService(eventRepo event.Repository, reminders *ReminderService, parser *eventtime.Parser, logger *logrus.Entry) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		reminders: reminders,
		parser:    parser,
		logger:    logger,
	}
}

func (s *EventService) Create(ctx context.Context, e *event.Event) (*event.Event, error) {
	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"event_id": e.ID, "title": e.Title}).Info("Event created")
	return e, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]*event.Event, error) {
	return s.eventRepo.ListAll(ctx)
}

func (s *EventService) Search(ctx context.Context, keyword string) ([]*event.Event, error) {
	return s.eventRepo.Search(ctx, strings.TrimSpace(keyword))
}

func (s *EventService) ListByCategory(ctx context.Context, category string) ([]*event.Event, error) {
	return s.eventRepo.ListByCategory(ctx, event.Category(category))
}

// Update applies changes and moves the event's reminder if one is armed.
func (s *EventService) Update(ctx context.Context, id string, changes EventChanges) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&e.Title, changes.Title)
	apply(&e.Date, changes.Date)
	apply(&e.Time, changes.Time)
	apply(&e.Description, changes.Description)
	apply(&e.Location, changes.Location)
	apply(&e.Image, changes.Image)
	apply(&e.RegistrationLink, changes.RegistrationLink)
	if changes.Category != nil {
		e.Category = event.Category(*changes.Category)
	}
	if changes.Attendees != nil {
		e.Attendees = *changes.Attendees
	}

	e.Normalize()
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.reminders.Rearm(e)
	s.logger.WithField("event_id", e.ID).Info("Event updated")
	return e, nil
}

// Delete removes the event and cancels its reminder.
func (s *EventService) Delete(ctx context.Context, id string) (*event.Event, error) {
	e, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.reminders.CancelReminder(id) {
		s.logger.WithField("event_id", id).Info("Reminder cancelled with deleted event")
	}
	s.logger.WithField("event_id", id).Info("Event deleted")
	return e, nil
}

// Upcoming returns events starting within the next window, soonest first. Events whose date
// cannot be parsed are left out.
func (s *EventService) Upcoming(ctx context.Context, window time.Duration) ([]ScheduledEvent, error) {
	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.parser.Now()
	horizon := now.Add(window)
	upcoming := make([]ScheduledEvent, 0, len(events))
	for _, e := range events {
		at, err := s.parser.Parse(e.Date, e.Time)
		if err != nil {
			continue
		}
		if at.After(now) && !at.After(horizon) {
			upcoming = append(upcoming, ScheduledEvent{Event: e, StartsAt: at})
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].StartsAt.Before(upcoming[j].StartsAt) })
	return upcoming, nil
}

// Next returns up to limit future events, soonest first.
func (s *EventService) Next(ctx context.Context, limit int) ([]ScheduledEvent, error) {
	upcoming, err := s.Upcoming(ctx, 100*365*24*time.Hour)
	if err != nil {
		return nil, err
	}
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}
