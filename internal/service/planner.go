// Package service implements the application's named operations on top of the
// mutation pipeline. Every state-changing operation is expressed as a
// mutation.Mutation so validation, authorization, snapshotting, audit, and
// invalidation happen uniformly.
package service

import (
	"log/slog"

	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/mutation"
	"github.com/ajoux/festin/internal/store"
	"github.com/ajoux/festin/internal/validation"
)

type Planner struct {
	pipeline  *mutation.Pipeline
	policy    *auth.Policy
	tokens    *auth.TokenService
	validator *validation.Validator

	users  *store.UserStore
	events *store.EventStore
	days   *store.DayStore
	meals  *store.MealStore
	items  *store.ItemStore
	people *store.PersonStore
	audit  *store.AuditStore

	logger *slog.Logger
}

func NewPlanner(
	pipeline *mutation.Pipeline,
	policy *auth.Policy,
	tokens *auth.TokenService,
	validator *validation.Validator,
	users *store.UserStore,
	events *store.EventStore,
	days *store.DayStore,
	meals *store.MealStore,
	items *store.ItemStore,
	people *store.PersonStore,
	audit *store.AuditStore,
	logger *slog.Logger,
) *Planner {
	return &Planner{
		pipeline:  pipeline,
		policy:    policy,
		tokens:    tokens,
		validator: validator,
		users:     users,
		events:    events,
		days:      days,
		meals:     meals,
		items:     items,
		people:    people,
		audit:     audit,
		logger:    logger,
	}
}

func strOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

func intOr(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}

func boolOr(p *bool, fallback bool) bool {
	if p != nil {
		return *p
	}
	return fallback
}
