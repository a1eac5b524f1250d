package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/domain"
)

func (e *testEnv) seedMealTree(t *testing.T) (event *domain.Event, mealID int64) {
	t.Helper()
	ctx := context.Background()
	event = e.seedEvent(t, "family", "K1")
	day, err := e.planner.AddDay(ctx, keyCreds("K1"), "family", CreateDayInput{Date: "2026-07-04"})
	require.NoError(t, err)
	meal, err := e.planner.AddMeal(ctx, keyCreds("K1"), "family", CreateMealInput{DayID: day.ID, Title: "Dîner"})
	require.NoError(t, err)
	return event, meal.ID
}

func TestAddItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, mealID := env.seedMealTree(t)

	item, err := env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{
		MealID:   mealID,
		Name:     "Baguettes",
		Quantity: "3",
	})
	require.NoError(t, err)
	assert.Equal(t, "Baguettes", item.Name)
	assert.Nil(t, item.PersonID)

	rec := env.lastAudit(t, "items", item.ID)
	assert.Equal(t, domain.ActionCreate, rec.Action)
	assert.Nil(t, rec.OldData)
}

func TestGuestClaimsOwnItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, mealID := env.seedMealTree(t)
	alice := env.seedGuest(t, event.ID, "Alice", "tok-alice")

	item, err := env.planner.AddItem(ctx, guestCreds("tok-alice"), "family", CreateItemInput{
		MealID: mealID,
		Name:   "Salade",
	})
	require.NoError(t, err)

	claimed, err := env.planner.UpdateItem(ctx, guestCreds("tok-alice"), "family", item.ID,
		UpdateItemInput{PersonID: &alice.ID})
	require.NoError(t, err)
	require.NotNil(t, claimed.PersonID)
	assert.Equal(t, alice.ID, *claimed.PersonID)
}

func TestGuestCannotClaimForOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, mealID := env.seedMealTree(t)
	env.seedGuest(t, event.ID, "Alice", "tok-alice")
	bob := env.seedGuest(t, event.ID, "Bob", "tok-bob")

	item, err := env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{MealID: mealID, Name: "Vin"})
	require.NoError(t, err)

	_, err = env.planner.UpdateItem(ctx, guestCreds("tok-alice"), "family", item.ID,
		UpdateItemInput{PersonID: &bob.ID})
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))
}

func TestGuestCannotReleaseOthersClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event, mealID := env.seedMealTree(t)
	env.seedGuest(t, event.ID, "Alice", "tok-alice")
	bob := env.seedGuest(t, event.ID, "Bob", "tok-bob")

	item, err := env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{
		MealID: mealID, Name: "Fromage", PersonID: &bob.ID,
	})
	require.NoError(t, err)

	_, err = env.planner.UpdateItem(ctx, guestCreds("tok-alice"), "family", item.ID,
		UpdateItemInput{Unclaim: true})
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	err = env.planner.DeleteItem(ctx, guestCreds("tok-alice"), "family", item.ID)
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	// The key holder is not bound by guest ownership.
	released, err := env.planner.UpdateItem(ctx, keyCreds("K1"), "family", item.ID,
		UpdateItemInput{Unclaim: true})
	require.NoError(t, err)
	assert.Nil(t, released.PersonID)
}

func TestAddItemClaimUnknownPerson(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, mealID := env.seedMealTree(t)

	ghost := int64(9999)
	_, err := env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{
		MealID: mealID, Name: "Pain", PersonID: &ghost,
	})
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestAddItemClaimCrossEventPerson(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, mealID := env.seedMealTree(t)
	other := env.seedEvent(t, "office", "K2")
	outsider := env.seedGuest(t, other.ID, "Mallory", "tok-mallory")

	// A person from another event does not resolve in this scope.
	_, err := env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{
		MealID: mealID, Name: "Pain", PersonID: &outsider.ID,
	})
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestUpdateItemCheckOff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, mealID := env.seedMealTree(t)

	item, err := env.planner.AddItem(ctx, keyCreds("K1"), "family", CreateItemInput{MealID: mealID, Name: "Glace"})
	require.NoError(t, err)

	checked := true
	updated, err := env.planner.UpdateItem(ctx, keyCreds("K1"), "family", item.ID,
		UpdateItemInput{Checked: &checked})
	require.NoError(t, err)
	assert.True(t, updated.Checked)
	assert.Equal(t, "Glace", updated.Name)
}
