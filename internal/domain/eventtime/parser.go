// Package eventtime turns the free-form date and time strings organisers type into
// absolute instants.
package eventtime

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmhodges/clock"
)

var (
	// ErrNotParseable is returned when a date/time pair cannot be resolved to an instant.
	ErrNotParseable = errors.New("event date/time is not parseable")
	// ErrNotInFuture is returned by ParseFuture for instants at or before now.
	ErrNotInFuture = errors.New("event date/time is not in the future")
)

var (
	timePattern     = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{0,2})\s*(am|pm)?`)
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s+([a-z]+)(?:,?\s+(\d{4}))?\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b([a-z]+)\s+(\d{1,2})(?:,?\s+(\d{4}))?\b`)
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Parser resolves event date/time strings in a fixed location.
type Parser struct {
	clock      clock.Clock
	location   *time.Location
	strictTime bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the location instants are built in. The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithStrictTime makes a malformed or out-of-range time string fail the whole parse
// instead of falling back to midnight.
func WithStrictTime(strict bool) Option {
	return func(p *Parser) { p.strictTime = strict }
}

func NewParser(clk clock.Clock, opts ...Option) *Parser {
	p := &Parser{
		clock:    clk,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Location returns the location parsed instants are expressed in.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Now is the parser's current instant in its location.
func (p *Parser) Now() time.Time {
	return p.clock.Now().In(p.location)
}

// Parse combines dateStr ("10 March 2025", "March 10") and timeStr ("2:30pm", "14:30", "9am")
// into one instant. A missing year means the current year.
func (p *Parser) Parse(dateStr, timeStr string) (time.Time, error) {
	hour, minute, ok := parseClock(timeStr)
	if !ok && p.strictTime {
		return time.Time{}, ErrNotParseable
	}

	day, month, year, ok := parseCalendarDate(dateStr)
	if !ok {
		return time.Time{}, ErrNotParseable
	}
	if year == 0 {
		year = p.clock.Now().In(p.location).Year()
	}
	if day > daysIn(month, year) {
		return time.Time{}, ErrNotParseable
	}

	return time.Date(year, month, day, hour, minute, 0, 0, p.location), nil
}

// ParseFuture is Parse restricted to instants strictly after now.
func (p *Parser) ParseFuture(dateStr, timeStr string) (time.Time, error) {
	at, err := p.Parse(dateStr, timeStr)
	if err != nil {
		return time.Time{}, err
	}
	if !at.After(p.clock.Now()) {
		return time.Time{}, ErrNotInFuture
	}
	return at, nil
}

// parseClock returns hour and minute of timeStr. ok is false when nothing matched or the
// values are outside a 24h clock; hour and minute are then 0.
func parseClock(timeStr string) (hour, minute int, ok bool) {
	m := timePattern.FindStringSubmatch(timeStr)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// parseCalendarDate tries "<day> <month> [year]" first, then "<month> <day> [year]".
// year is 0 when the string carries none.
func parseCalendarDate(dateStr string) (day int, month time.Month, year int, ok bool) {
	if m := dayMonthPattern.FindStringSubmatch(dateStr); m != nil {
		if day, month, year, ok = resolveDate(m[1], m[2], m[3]); ok {
			return day, month, year, true
		}
	}
	if m := monthDayPattern.FindStringSubmatch(dateStr); m != nil {
		if day, month, year, ok = resolveDate(m[2], m[1], m[3]); ok {
			return day, month, year, true
		}
	}
	return 0, 0, 0, false
}

func resolveDate(dayStr, monthStr, yearStr string) (int, time.Month, int, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day <= 0 {
		return 0, 0, 0, false
	}
	month := lookupMonth(monthStr)
	if month == 0 {
		return 0, 0, 0, false
	}
	year := 0
	if yearStr != "" {
		year, _ = strconv.Atoi(yearStr)
	}
	return day, month, year, true
}

func lookupMonth(name string) time.Month {
	name = strings.ToLower(name)
	for i, m := range monthNames {
		if m == name {
			return time.Month(i + 1)
		}
	}
	return 0
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
