package event

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Category groups events on the dashboard.
type Category string

const (
	CategoryAcademic Category = "Academic"
	CategorySocial   Category = "Social"
	CategorySports   Category = "Sports"
	CategoryCultural Category = "Cultural"
	CategoryWorkshop Category = "Workshop"
	CategoryOther    Category = "Other"
)

const (
	DefaultLocation = "Campus"
	DefaultImage    = "https://via.placeholder.com/400x200"

	maxTitleLen       = 100
	maxDescriptionLen = 500
)

// Event is a campus event. Date and Time are kept as the organiser typed them
// ("10 March 2025", "2:30pm"); they are parsed into an instant only when needed.
type Event struct {
	ID               string
	Title            string
	Date             string
	Time             string
	Description      string
	Location         string
	Category         Category
	Attendees        int
	Image            string
	RegistrationLink string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAcademic, CategorySocial, CategorySports, CategoryCultural, CategoryWorkshop, CategoryOther:
		return true
	}
	return false
}

// Normalize trims text fields and fills in defaults for optional ones.
func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Date = strings.TrimSpace(e.Date)
	e.Time = strings.TrimSpace(e.Time)
	e.Location = strings.TrimSpace(e.Location)
	if e.Location == "" {
		e.Location = DefaultLocation
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if e.Image == "" {
		e.Image = DefaultImage
	}
}

// Validate checks the constraints the dashboard relies on.
func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("please provide an event title")
	}
	if utf8.RuneCountInString(e.Title) > maxTitleLen {
		return fmt.Errorf("title cannot be more than %d characters", maxTitleLen)
	}
	if e.Date == "" {
		return fmt.Errorf("please provide an event date")
	}
	if e.Time == "" {
		return fmt.Errorf("please provide an event time")
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionLen {
		return fmt.Errorf("description cannot be more than %d characters", maxDescriptionLen)
	}
	if !ValidCategory(e.Category) {
		return fmt.Errorf("invalid category %q", e.Category)
	}
	if e.Attendees < 0 {
		return fmt.Errorf("attendees cannot be negative")
	}
	return nil
}
