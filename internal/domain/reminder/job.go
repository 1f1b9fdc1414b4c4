// internal/domain/reminder/job.go
package reminder

import "time"

// DefaultLeadMinutes is how long before an event its reminder fires when the caller does not say.
const DefaultLeadMinutes = 30

// Status is the lifecycle state of an armed reminder.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusFired     Status = "fired"
	StatusCancelled Status = "cancelled"
)

// Job is one armed reminder. Fired and cancelled jobs are no longer held by the scheduler.
type Job struct {
	EventID     string
	FiresAt     time.Time
	Recipient   string // opaque handle understood by the messenger (chat id, phone number)
	Title       string
	LeadMinutes int
	Status      Status
}
