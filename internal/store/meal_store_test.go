package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealStoreCreateAppends(t *testing.T) {
	d := openTestDB(t)
	store := NewMealStore(d)
	ctx := context.Background()

	event := seedEvent(t, d, "family", "K1")
	day := seedDay(t, d, event.ID, "2026-07-04")

	breakfast, err := store.Create(ctx, day.ID, event.ID, "Petit déjeuner", "08:00", "", 4, 2)
	require.NoError(t, err)
	require.NotNil(t, breakfast)
	dinner, err := store.Create(ctx, day.ID, event.ID, "Dîner", "19:30", "chez nous", 6, 3)
	require.NoError(t, err)
	require.NotNil(t, dinner)

	assert.Equal(t, 0, breakfast.Position)
	assert.Equal(t, 1, dinner.Position)
	assert.Equal(t, "Dîner", dinner.Title)
	assert.Equal(t, 6, dinner.Adults)
}

func TestMealStoreCreateWrongEvent(t *testing.T) {
	d := openTestDB(t)
	store := NewMealStore(d)
	ctx := context.Background()

	a := seedEvent(t, d, "event-a", "K1")
	b := seedEvent(t, d, "event-b", "K2")
	day := seedDay(t, d, a.ID, "2026-07-04")

	meal, err := store.Create(ctx, day.ID, b.ID, "Lunch", "", "", 0, 0)
	require.NoError(t, err)
	assert.Nil(t, meal, "day outside the scope must insert nothing")
}

func TestMealStoreGetScoped(t *testing.T) {
	d := openTestDB(t)
	store := NewMealStore(d)
	ctx := context.Background()

	a := seedEvent(t, d, "event-a", "K1")
	b := seedEvent(t, d, "event-b", "K2")
	day := seedDay(t, d, a.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, a.ID, "Lunch")

	got, err := store.GetByID(ctx, meal.ID, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.GetByID(ctx, meal.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lunch", got.Title)
}

func TestMealStoreUpdateScoped(t *testing.T) {
	d := openTestDB(t)
	store := NewMealStore(d)
	ctx := context.Background()

	a := seedEvent(t, d, "event-a", "K1")
	b := seedEvent(t, d, "event-b", "K2")
	day := seedDay(t, d, a.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, a.ID, "Lunch")

	err := store.Update(ctx, meal.ID, b.ID, "Hijacked", "", "", 0, 0)
	assert.Error(t, err)

	require.NoError(t, store.Update(ctx, meal.ID, a.ID, "Brunch", "11:00", "", 2, 0))
	updated, err := store.GetByID(ctx, meal.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brunch", updated.Title)
	assert.Equal(t, "11:00", updated.Time)
}

func TestMealStoreUpdatePosition(t *testing.T) {
	d := openTestDB(t)
	store := NewMealStore(d)
	ctx := context.Background()

	event := seedEvent(t, d, "family", "K1")
	day := seedDay(t, d, event.ID, "2026-07-04")
	first := seedMeal(t, d, day.ID, event.ID, "First")
	second := seedMeal(t, d, day.ID, event.ID, "Second")

	require.NoError(t, store.UpdatePosition(ctx, first.ID, event.ID, 1))
	require.NoError(t, store.UpdatePosition(ctx, second.ID, event.ID, 0))

	meals, err := store.ListByDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Second", meals[0].Title)
	assert.Equal(t, "First", meals[1].Title)
}

func TestMealStoreDeleteCascadesItems(t *testing.T) {
	d := openTestDB(t)
	meals := NewMealStore(d)
	items := NewItemStore(d)
	ctx := context.Background()

	event := seedEvent(t, d, "family", "K1")
	day := seedDay(t, d, event.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, event.ID, "Dinner")

	item, err := items.Create(ctx, meal.ID, event.ID, "Salad", "2 bowls", nil)
	require.NoError(t, err)
	require.NotNil(t, item)

	require.NoError(t, meals.Delete(ctx, meal.ID, event.ID))

	gone, err := items.GetByID(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
