package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajoux/festin/internal/db"
	"github.com/ajoux/festin/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func seedEvent(t *testing.T, d *sql.DB, slug, adminKey string) *domain.Event {
	t.Helper()
	event, err := NewEventStore(d).Create(context.Background(), slug, "Event "+slug, "", adminKey, nil)
	require.NoError(t, err)
	require.NotNil(t, event)
	return event
}

func seedDay(t *testing.T, d *sql.DB, eventID int64, date string) *domain.Day {
	t.Helper()
	day, err := NewDayStore(d).Create(context.Background(), eventID, date)
	require.NoError(t, err)
	require.NotNil(t, day)
	return day
}

func seedMeal(t *testing.T, d *sql.DB, dayID, eventID int64, title string) *domain.Meal {
	t.Helper()
	meal, err := NewMealStore(d).Create(context.Background(), dayID, eventID, title, "", "", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, meal)
	return meal
}
