package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
)

func TestCreateEventAnonymous(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.planner.CreateEvent(ctx, auth.Credentials{}, CreateEventInput{
		Name:        "Réveillon 2026",
		Description: "new year's eve dinner",
	})
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.NotEmpty(t, event.Slug)
	assert.NotEmpty(t, event.AdminKey)
	assert.Nil(t, event.CreatedBy)

	// The minted key immediately grants write access.
	day, err := env.planner.AddDay(ctx, keyCreds(event.AdminKey), event.Slug, CreateDayInput{Date: "2026-12-31"})
	require.NoError(t, err)
	assert.Equal(t, event.ID, day.EventID)
}

func TestCreateEventAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, err := env.planner.CreateEvent(ctx, auth.Credentials{}, CreateEventInput{Name: "BBQ"})
	require.NoError(t, err)

	rec := env.lastAudit(t, "events", event.ID)
	assert.Equal(t, domain.ActionCreate, rec.Action)
	assert.Nil(t, rec.OldData)
	assert.NotNil(t, rec.NewData)
	assert.Nil(t, rec.UserID, "anonymous creation records no user")
}

func TestUpdateEventRequiresKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedEvent(t, "family", "K1")

	name := "Renamed"
	_, err := env.planner.UpdateEvent(ctx, auth.Credentials{}, "family", UpdateEventInput{Name: &name})
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))

	updated, err := env.planner.UpdateEvent(ctx, keyCreds("K1"), "family", UpdateEventInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestDeleteEventThenGetNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedEvent(t, "family", "K1")
	require.NoError(t, env.planner.DeleteEvent(ctx, keyCreds("K1"), "family"))

	_, err := env.planner.GetEvent(ctx, "family")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestGetEventTree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.seedEvent(t, "family", "K1")
	env.seedGuest(t, event.ID, "Alice", "tok-alice")
	day, err := env.planner.AddDay(ctx, keyCreds("K1"), "family", CreateDayInput{Date: "2026-07-04"})
	require.NoError(t, err)
	meal, err := env.planner.AddMeal(ctx, keyCreds("K1"), "family", CreateMealInput{DayID: day.ID, Title: "Dîner"})
	require.NoError(t, err)
	_, err = env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{MealID: meal.ID, Name: "Vin"})
	require.NoError(t, err)

	// Reads are public.
	detail, err := env.planner.GetEvent(ctx, "family")
	require.NoError(t, err)
	require.Len(t, detail.Days, 1)
	require.Len(t, detail.Days[0].Meals, 1)
	assert.Equal(t, "Dîner", detail.Days[0].Meals[0].Meal.Title)
	require.Len(t, detail.Days[0].Meals[0].Items, 1)
	require.Len(t, detail.People, 1)
	assert.Equal(t, "Alice", detail.People[0].Name)
}

func TestAddDayDateValidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedEvent(t, "family", "K1")

	_, err := env.planner.AddDay(ctx, keyCreds("K1"), "family", CreateDayInput{Date: "July 4th"})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestDeleteDayCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedEvent(t, "family", "K1")
	day, err := env.planner.AddDay(ctx, keyCreds("K1"), "family", CreateDayInput{Date: "2026-07-04"})
	require.NoError(t, err)
	_, err = env.planner.AddMeal(ctx, keyCreds("K1"), "family", CreateMealInput{DayID: day.ID, Title: "Dîner"})
	require.NoError(t, err)

	require.NoError(t, env.planner.DeleteDay(ctx, keyCreds("K1"), "family", day.ID))

	detail, err := env.planner.GetEvent(ctx, "family")
	require.NoError(t, err)
	assert.Empty(t, detail.Days)
}
