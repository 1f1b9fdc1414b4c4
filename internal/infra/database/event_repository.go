package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus_event_bot/internal/domain/event"

	"github.com/google/uuid"
)

// ErrEventNotFound is returned when no event has the requested id.
var ErrEventNotFound = errors.New("event not found")

const eventColumns = `id, title, event_date, event_time, description, location, category, attendees, image, registration_link, created_at, updated_at`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*event.Event, error) {
	e := &event.Event{}
	var category string
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Description, &e.Location, &category,
		&e.Attendees, &e.Image, &e.RegistrationLink, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Category = event.Category(category)
	return e, nil
}

// Create assigns an id and timestamps and inserts the event.
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO events (` + eventColumns + `)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Title, e.Date, e.Time, e.Description, e.Location,
		string(e.Category), e.Attendees, e.Image, e.RegistrationLink, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}
	return e, nil
}

// Update overwrites every editable field and bumps updated_at.
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	e.UpdatedAt = time.Now().UTC()
	query := `UPDATE events
               SET title = $1, event_date = $2, event_time = $3, description = $4, location = $5,
                   category = $6, attendees = $7, image = $8, registration_link = $9, updated_at = $10
               WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query, e.Title, e.Date, e.Time, e.Description, e.Location,
		string(e.Category), e.Attendees, e.Image, e.RegistrationLink, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) (*event.Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error deleting event: %w", err)
	}
	defer tx.Rollback()

	e, err := scanEvent(tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error deleting event: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("error deleting event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error deleting event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("error deleting all events: %w", err)
	}
	return nil
}

func (r *EventRepository) ListAll(ctx context.Context) ([]*event.Event, error) {
	return r.list(ctx, "listing all events", `SELECT `+eventColumns+` FROM events ORDER BY event_date, created_at, id`)
}

func (r *EventRepository) Search(ctx context.Context, keyword string) ([]*event.Event, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	query := `SELECT ` + eventColumns + ` FROM events
               WHERE LOWER(title) LIKE $1 ESCAPE '\' OR LOWER(description) LIKE $1 ESCAPE '\' OR LOWER(location) LIKE $1 ESCAPE '\'
               ORDER BY created_at, id`
	return r.list(ctx, "searching events", query, pattern)
}

func (r *EventRepository) ListByCategory(ctx context.Context, category event.Category) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE category = $1 ORDER BY created_at, id`
	return r.list(ctx, "listing events by category", query, string(category))
}

func (r *EventRepository) list(ctx context.Context, op string, query string, args ...any) ([]*event.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error %s: %w", op, err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event while %s: %w", op, err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events while %s: %w", op, err)
	}
	return events, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
