package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStoreCreate(t *testing.T) {
	d := openTestDB(t)
	store := NewItemStore(d)
	ctx := context.Background()

	event := seedEvent(t, d, "family", "K1")
	day := seedDay(t, d, event.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, event.ID, "Dinner")

	item, err := store.Create(ctx, meal.ID, event.ID, "Baguettes", "3", nil)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Baguettes", item.Name)
	assert.False(t, item.Checked)
	assert.Nil(t, item.PersonID)
}

func TestItemStoreCreateWrongEvent(t *testing.T) {
	d := openTestDB(t)
	store := NewItemStore(d)
	ctx := context.Background()

	a := seedEvent(t, d, "event-a", "K1")
	b := seedEvent(t, d, "event-b", "K2")
	day := seedDay(t, d, a.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, a.ID, "Dinner")

	item, err := store.Create(ctx, meal.ID, b.ID, "Smuggled", "", nil)
	require.NoError(t, err)
	assert.Nil(t, item, "meal outside the scope must insert nothing")
}

func TestItemStoreUpdateClaim(t *testing.T) {
	d := openTestDB(t)
	items := NewItemStore(d)
	people := NewPersonStore(d)
	ctx := context.Background()

	event := seedEvent(t, d, "family", "K1")
	day := seedDay(t, d, event.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, event.ID, "Dinner")
	person, err := people.Create(ctx, event.ID, "Alice", "🥗", "tok-alice", nil)
	require.NoError(t, err)

	item, err := items.Create(ctx, meal.ID, event.ID, "Salad", "1 bowl", nil)
	require.NoError(t, err)

	require.NoError(t, items.Update(ctx, item.ID, event.ID, item.Name, item.Quantity, true, &person.ID))

	updated, err := items.GetByID(ctx, item.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, updated.Checked)
	require.NotNil(t, updated.PersonID)
	assert.Equal(t, person.ID, *updated.PersonID)
}

func TestItemStorePersonDeleteUnclaims(t *testing.T) {
	d := openTestDB(t)
	items := NewItemStore(d)
	people := NewPersonStore(d)
	ctx := context.Background()

	event := seedEvent(t, d, "family", "K1")
	day := seedDay(t, d, event.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, event.ID, "Dinner")
	person, err := people.Create(ctx, event.ID, "Bob", "", "tok-bob", nil)
	require.NoError(t, err)

	item, err := items.Create(ctx, meal.ID, event.ID, "Cheese", "", &person.ID)
	require.NoError(t, err)
	require.NotNil(t, item.PersonID)

	require.NoError(t, people.Delete(ctx, person.ID, event.ID))

	orphaned, err := items.GetByID(ctx, item.ID, event.ID)
	require.NoError(t, err)
	require.NotNil(t, orphaned)
	assert.Nil(t, orphaned.PersonID, "claims drop when their person is removed")
}

func TestItemStoreDeleteScoped(t *testing.T) {
	d := openTestDB(t)
	store := NewItemStore(d)
	ctx := context.Background()

	a := seedEvent(t, d, "event-a", "K1")
	b := seedEvent(t, d, "event-b", "K2")
	day := seedDay(t, d, a.ID, "2026-07-04")
	meal := seedMeal(t, d, day.ID, a.ID, "Dinner")

	item, err := store.Create(ctx, meal.ID, a.ID, "Wine", "2 bottles", nil)
	require.NoError(t, err)

	err = store.Delete(ctx, item.ID, b.ID)
	assert.Error(t, err)

	still, err := store.GetByID(ctx, item.ID, a.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}
