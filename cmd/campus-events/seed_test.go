package main

import (
	"context"
	"testing"
	"time"

	"campus_event_bot/internal/domain/eventtime"
	idb "campus_event_bot/internal/infra/database"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedEvents(t *testing.T) {
	ctx := context.Background()
	db, err := idb.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, idb.Migrate(ctx, db))
	repo := idb.NewEventRepository(db)

	clk := clock.NewFake()
	clk.Set(time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC))
	parser := eventtime.NewParser(clk, eventtime.WithLocation(time.UTC))

	// Seeding twice replaces rather than appends.
	for i := 0; i < 2; i++ {
		n, err := seedEvents(ctx, repo, sampleEvents(clk.Now()))
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}

	events, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 4)

	upcoming := 0
	for _, e := range events {
		_, err := parser.Parse(e.Date, e.Time)
		require.NoError(t, err, "sample %q must parse", e.Title)
		if _, err := parser.ParseFuture(e.Date, e.Time); err == nil {
			upcoming++
		}
	}
	assert.Equal(t, 2, upcoming)
}
