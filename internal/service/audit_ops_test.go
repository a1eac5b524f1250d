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

func adminCreds() auth.Credentials {
	return auth.Credentials{Claims: &auth.Claims{UserID: 1, Role: domain.RoleAdmin}}
}

func TestQueryAuditRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.planner.QueryAudit(ctx, auth.Credentials{}, AuditQueryInput{})
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))

	userCreds := auth.Credentials{Claims: &auth.Claims{UserID: 2, Role: domain.RoleUser}}
	_, err = env.planner.QueryAudit(ctx, userCreds, AuditQueryInput{})
	assert.True(t, apperr.Is(err, apperr.ErrForbidden))

	// Event keys and guest tokens grant no audit access either.
	env.seedEvent(t, "family", "K1")
	_, err = env.planner.QueryAudit(ctx, keyCreds("K1"), AuditQueryInput{})
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
}

func TestQueryAuditFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedEvent(t, "family", "K1")
	day, err := env.planner.AddDay(ctx, keyCreds("K1"), "family", CreateDayInput{Date: "2026-07-04"})
	require.NoError(t, err)
	meal, err := env.planner.AddMeal(ctx, keyCreds("K1"), "family", CreateMealInput{DayID: day.ID, Title: "Dîner"})
	require.NoError(t, err)
	title := "Souper"
	_, err = env.planner.UpdateMeal(ctx, keyCreds("K1"), "family", meal.ID, UpdateMealInput{Title: &title})
	require.NoError(t, err)

	records, err := env.planner.QueryAudit(ctx, adminCreds(), AuditQueryInput{Table: "meals"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, domain.ActionUpdate, records[0].Action)
	assert.Equal(t, domain.ActionCreate, records[1].Action)

	updates, err := env.planner.QueryAudit(ctx, adminCreds(), AuditQueryInput{Table: "meals", Action: "update"})
	require.NoError(t, err)
	assert.Len(t, updates, 1)
}

func TestQueryAuditValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.planner.QueryAudit(context.Background(), adminCreds(), AuditQueryInput{Action: "explode"})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))

	_, err = env.planner.QueryAudit(context.Background(), adminCreds(), AuditQueryInput{Limit: 500})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestMutationEmitsInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.seedEvent(t, "family", "K1")

	changes, cancel := env.hub.Subscribe(event.ID)
	defer cancel()

	_, err := env.planner.AddDay(ctx, keyCreds("K1"), "family", CreateDayInput{Date: "2026-07-04"})
	require.NoError(t, err)

	select {
	case change := <-changes:
		assert.Equal(t, event.ID, change.EventID)
		assert.Equal(t, "days", change.Table)
	default:
		t.Fatal("expected an invalidation after the mutation")
	}
}
