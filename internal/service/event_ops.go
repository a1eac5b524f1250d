package service

import (
	"context"
	"database/sql"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/id"
	"github.com/ajoux/festin/internal/mutation"
)

type CreateEventInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// CreateEvent creates an event and mints its admin key. Anyone may create an
// event, logged in or not; the creator keeps write access through the
// returned key.
func (s *Planner) CreateEvent(ctx context.Context, creds auth.Credentials, in CreateEventInput) (*domain.Event, error) {
	slug, err := id.NewSlug(in.Name)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	adminKey, err := id.NewSecret()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "event.create",
		Table:  "events",
		Action: domain.ActionCreate,
		Input:  &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			return s.policy.Identify(creds), nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			event, err := s.events.WithTx(tx).Create(ctx, slug, in.Name, in.Description, adminKey, s.policy.Identify(creds).UserID)
			if err != nil {
				return 0, err
			}
			return event.ID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, eventID int64) (any, error) {
			event, err := s.events.WithTx(tx).GetByID(ctx, eventID)
			if err != nil || event == nil {
				return nil, err
			}
			return event, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Event), nil
}

type UpdateEventInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateEvent patches the event's name and description.
func (s *Planner) UpdateEvent(ctx context.Context, creds auth.Credentials, slug string, in UpdateEventInput) (*domain.Event, error) {
	var ac *auth.Context
	var old *domain.Event

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "event.update",
		Table:  "events",
		Action: domain.ActionUpdate,
		Input:  &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			event, err := s.events.WithTx(tx).GetByID(ctx, ac.EventID)
			if err != nil || event == nil {
				return nil, err
			}
			old = event
			return event, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			err := s.events.WithTx(tx).Update(ctx, ac.EventID,
				strOr(in.Name, old.Name), strOr(in.Description, old.Description))
			if err != nil {
				return 0, err
			}
			return ac.EventID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, eventID int64) (any, error) {
			event, err := s.events.WithTx(tx).GetByID(ctx, eventID)
			if err != nil || event == nil {
				return nil, err
			}
			return event, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Event), nil
}

// DeleteEvent removes the event and, by cascade, everything it owns.
func (s *Planner) DeleteEvent(ctx context.Context, creds auth.Credentials, slug string) error {
	var ac *auth.Context

	_, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "event.delete",
		Table:  "events",
		Action: domain.ActionDelete,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			event, err := s.events.WithTx(tx).GetByID(ctx, ac.EventID)
			if err != nil || event == nil {
				return nil, err
			}
			return event, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			if err := s.events.WithTx(tx).Delete(ctx, ac.EventID); err != nil {
				return 0, err
			}
			return ac.EventID, nil
		},
	})
	return err
}

type CreateDayInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// AddDay appends a day to the event.
func (s *Planner) AddDay(ctx context.Context, creds auth.Credentials, slug string, in CreateDayInput) (*domain.Day, error) {
	var ac *auth.Context

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "day.create",
		Table:  "days",
		Action: domain.ActionCreate,
		Input:  &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			day, err := s.days.WithTx(tx).Create(ctx, ac.EventID, in.Date)
			if err != nil {
				return 0, err
			}
			return day.ID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, dayID int64) (any, error) {
			day, err := s.days.WithTx(tx).GetByID(ctx, dayID, ac.EventID)
			if err != nil || day == nil {
				return nil, err
			}
			return day, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Day), nil
}

// DeleteDay removes a day and its meals.
func (s *Planner) DeleteDay(ctx context.Context, creds auth.Credentials, slug string, dayID int64) error {
	var ac *auth.Context

	_, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "day.delete",
		Table:    "days",
		Action:   domain.ActionDelete,
		RecordID: dayID,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			day, err := s.days.WithTx(tx).GetByID(ctx, dayID, ac.EventID)
			if err != nil || day == nil {
				return nil, err
			}
			return day, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			if err := s.days.WithTx(tx).Delete(ctx, dayID, ac.EventID); err != nil {
				return 0, err
			}
			return dayID, nil
		},
	})
	return err
}
