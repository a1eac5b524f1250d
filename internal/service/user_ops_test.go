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

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email:    "owner@example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second, err := env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email:    "friend@example.com",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, second.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email: "owner@example.com", Password: "s3cret-enough",
	})
	require.NoError(t, err)

	_, err = env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email: "owner@example.com", Password: "another-password",
	})
	assert.True(t, apperr.Is(err, apperr.ErrConflict))
}

func TestRegisterWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.planner.Register(context.Background(), auth.Credentials{}, RegisterInput{
		Email: "owner@example.com", Password: "short",
	})
	assert.True(t, apperr.Is(err, apperr.ErrValidation))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email: "owner@example.com", Password: "s3cret-enough",
	})
	require.NoError(t, err)

	result, err := env.planner.Login(ctx, LoginInput{Email: "owner@example.com", Password: "s3cret-enough"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "owner@example.com", result.User.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email: "owner@example.com", Password: "s3cret-enough",
	})
	require.NoError(t, err)

	// Unknown email and wrong password fail identically.
	_, err = env.planner.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "s3cret-enough"})
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))

	_, err = env.planner.Login(ctx, LoginInput{Email: "owner@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
}

func TestAdminSessionWritesAnywhere(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.planner.Register(ctx, auth.Credentials{}, RegisterInput{
		Email: "owner@example.com", Password: "s3cret-enough",
	})
	require.NoError(t, err)

	env.seedEvent(t, "family", "K1")

	creds := auth.Credentials{Claims: &auth.Claims{UserID: admin.ID, Role: admin.Role}}
	day, err := env.planner.AddDay(ctx, creds, "family", CreateDayInput{Date: "2026-07-04"})
	require.NoError(t, err)

	// Admin mutations record the session user on the audit trail.
	rec := env.lastAudit(t, "days", day.ID)
	require.NotNil(t, rec.UserID)
	assert.Equal(t, admin.ID, *rec.UserID)
}
