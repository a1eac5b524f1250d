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

type CreatePersonInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Emoji string `json:"emoji" validate:"max=20"`
}

// JoinResult is returned when a person joins an event. GuestToken is the one
// place the minted token crosses the wire; the person's JSON never carries it.
type JoinResult struct {
	Person     *domain.Person `json:"person"`
	GuestToken string         `json:"guestToken"`
}

// AddPerson registers a participant. Knowing the event link is enough to
// join: anonymous callers are in scope here, unlike every other mutation. A
// fresh guest token is minted and returned once.
func (s *Planner) AddPerson(ctx context.Context, creds auth.Credentials, slug string, in CreatePersonInput) (*JoinResult, error) {
	token, err := id.NewSecret()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var ac *auth.Context

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "person.create",
		Table:  "people",
		Action: domain.ActionCreate,
		Input:  &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.ResolveScope(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			person, err := s.people.WithTx(tx).Create(ctx, ac.EventID, in.Name, in.Emoji, token, ac.UserID)
			if err != nil {
				return 0, err
			}
			return person.ID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, personID int64) (any, error) {
			person, err := s.people.WithTx(tx).GetByID(ctx, personID, ac.EventID)
			if err != nil || person == nil {
				return nil, err
			}
			return person, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &JoinResult{Person: res.(*domain.Person), GuestToken: token}, nil
}

type UpdatePersonInput struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Emoji *string `json:"emoji" validate:"omitempty,max=20"`
}

// UpdatePerson patches a participant's display fields. Guests can only edit
// their own entry.
func (s *Planner) UpdatePerson(ctx context.Context, creds auth.Credentials, slug string, personID int64, in UpdatePersonInput) (*domain.Person, error) {
	var ac *auth.Context
	var old *domain.Person

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "person.update",
		Table:    "people",
		Action:   domain.ActionUpdate,
		RecordID: personID,
		Input:    &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			if a.Kind == auth.KindGuest && a.PersonID != personID {
				return nil, apperr.Forbidden("guests can only edit their own entry")
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			person, err := s.people.WithTx(tx).GetByID(ctx, personID, ac.EventID)
			if err != nil || person == nil {
				return nil, err
			}
			old = person
			return person, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			err := s.people.WithTx(tx).Update(ctx, personID, ac.EventID,
				strOr(in.Name, old.Name), strOr(in.Emoji, old.Emoji))
			if err != nil {
				return 0, err
			}
			return personID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, personID int64) (any, error) {
			person, err := s.people.WithTx(tx).GetByID(ctx, personID, ac.EventID)
			if err != nil || person == nil {
				return nil, err
			}
			return person, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Person), nil
}

// DeletePerson removes a participant; their item claims become unclaimed via
// the schema's ON DELETE SET NULL. Guests can only remove themselves.
func (s *Planner) DeletePerson(ctx context.Context, creds auth.Credentials, slug string, personID int64) error {
	var ac *auth.Context

	_, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "person.delete",
		Table:    "people",
		Action:   domain.ActionDelete,
		RecordID: personID,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			if a.Kind == auth.KindGuest && a.PersonID != personID {
				return nil, apperr.Forbidden("guests can only remove their own entry")
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			person, err := s.people.WithTx(tx).GetByID(ctx, personID, ac.EventID)
			if err != nil || person == nil {
				return nil, err
			}
			return person, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			if err := s.people.WithTx(tx).Delete(ctx, personID, ac.EventID); err != nil {
				return 0, err
			}
			return personID, nil
		},
	})
	return err
}
