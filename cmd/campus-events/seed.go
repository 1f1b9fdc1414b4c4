package main

import (
	"context"
	"fmt"
	"time"

	"campus_event_bot/internal/domain/event"
	"campus_event_bot/internal/infra/config"
	idb "campus_event_bot/internal/infra/database"
	"campus_event_bot/internal/infra/logger"

	"github.com/jmhodges/clock"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all events with a sample set",
	Long: `Deletes every stored event and inserts four samples: two upcoming and two past.
Sample dates are relative to today so the upcoming ones can always get reminders.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	seedLogger := logger.For("seed")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := idb.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer db.Close()

	n, err := seedEvents(ctx, idb.NewEventRepository(db), sampleEvents(clock.New().Now().In(cfg.Location)))
	if err != nil {
		return err
	}
	seedLogger.Infof("Seeded %d events", n)
	return nil
}

// seedEvents replaces the stored events with events.
func seedEvents(ctx context.Context, repo event.Repository, events []*event.Event) (int, error) {
	if err := repo.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("could not clear events: %w", err)
	}
	for _, e := range events {
		e.Normalize()
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("invalid sample event %q: %w", e.Title, err)
		}
		if err := repo.Create(ctx, e); err != nil {
			return 0, err
		}
	}
	return len(events), nil
}

func sampleEvents(now time.Time) []*event.Event {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2 January 2006")
	}
	return []*event.Event{
		{
			Title:       "Campus Gaming Tourney 🎮",
			Date:        day(3),
			Time:        "10:00 AM",
			Location:    "Student Center Hall",
			Category:    event.CategorySocial,
			Description: "Join the ultimate FIFA and Call of Duty tournament!",
			Image:       "https://images.unsplash.com/photo-1542751371-adc38448a05e?auto=format&fit=crop&w=800&q=80",
			Attendees:   120,
		},
		{
			Title:       "Tech Startup Summit 🚀",
			Date:        day(10),
			Time:        "9:00 AM",
			Location:    "Innovation Hub",
			Category:    event.CategoryWorkshop,
			Description: "Meet successful founders.",
			Image:       "https://images.unsplash.com/photo-1559136555-9303dff5a98c?auto=format&fit=crop&w=800&q=80",
			Attendees:   200,
		},
		{
			Title:       "Freshers Bash 🎉",
			Date:        day(-60),
			Time:        "6:00 PM",
			Location:    "Amphitheater",
			Category:    event.CategorySocial,
			Description: "The biggest party of the year to welcome new students!",
			Image:       "https://images.unsplash.com/photo-1492684223066-81342ee5ff30?auto=format&fit=crop&w=800&q=80",
			Attendees:   800,
		},
		{
			Title:       "Hackathon 1.0 💻",
			Date:        day(-30),
			Time:        "8:00 AM",
			Location:    "Library Lab",
			Category:    event.CategoryAcademic,
			Description: "24-hour coding marathon.",
			Image:       "https://images.unsplash.com/photo-1504384308090-c54be3855833?auto=format&fit=crop&w=800&q=80",
			Attendees:   50,
		},
	}
}
