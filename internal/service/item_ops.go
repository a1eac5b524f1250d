package service

import (
	"context"
	"database/sql"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/mutation"
)

type CreateItemInput struct {
	MealID   int64  `json:"mealId" validate:"required,gte=1"`
	Name     string `json:"name" validate:"required,max=200"`
	Quantity string `json:"quantity" validate:"max=100"`
	PersonID *int64 `json:"personId" validate:"omitempty,gte=1"`
}

// AddItem adds a contribution under a meal, optionally already claimed by a
// person. Guests can only claim for their own person.
func (s *Planner) AddItem(ctx context.Context, creds auth.Credentials, slug string, in CreateItemInput) (*domain.Item, error) {
	var ac *auth.Context

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "item.create",
		Table:  "items",
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
			if in.PersonID != nil {
				if err := s.checkClaim(ctx, tx, ac, *in.PersonID); err != nil {
					return 0, err
				}
			}
			item, err := s.items.WithTx(tx).Create(ctx, in.MealID, ac.EventID, in.Name, in.Quantity, in.PersonID)
			if err != nil {
				return 0, err
			}
			if item == nil {
				return 0, apperr.NotFound("meals", in.MealID)
			}
			return item.ID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, itemID int64) (any, error) {
			item, err := s.items.WithTx(tx).GetByID(ctx, itemID, ac.EventID)
			if err != nil || item == nil {
				return nil, err
			}
			return item, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Item), nil
}

type UpdateItemInput struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Quantity *string `json:"quantity" validate:"omitempty,max=100"`
	Checked  *bool   `json:"checked"`
	PersonID *int64  `json:"personId" validate:"omitempty,gte=1"`
	Unclaim  bool    `json:"unclaim"`
}

// UpdateItem patches an item: rename, requantify, check off, claim or
// unclaim. Guests can only claim for themselves and cannot take over or
// release another person's claim.
func (s *Planner) UpdateItem(ctx context.Context, creds auth.Credentials, slug string, itemID int64, in UpdateItemInput) (*domain.Item, error) {
	var ac *auth.Context
	var old *domain.Item

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "item.update",
		Table:    "items",
		Action:   domain.ActionUpdate,
		RecordID: itemID,
		Input:    &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			item, err := s.items.WithTx(tx).GetByID(ctx, itemID, ac.EventID)
			if err != nil || item == nil {
				return nil, err
			}
			old = item
			return item, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			personID := old.PersonID
			switch {
			case in.Unclaim:
				if err := s.checkRelease(ac, old); err != nil {
					return 0, err
				}
				personID = nil
			case in.PersonID != nil:
				if err := s.checkRelease(ac, old); err != nil {
					return 0, err
				}
				if err := s.checkClaim(ctx, tx, ac, *in.PersonID); err != nil {
					return 0, err
				}
				personID = in.PersonID
			}

			err := s.items.WithTx(tx).Update(ctx, itemID, ac.EventID,
				strOr(in.Name, old.Name),
				strOr(in.Quantity, old.Quantity),
				boolOr(in.Checked, old.Checked),
				personID)
			if err != nil {
				return 0, err
			}
			return itemID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, itemID int64) (any, error) {
			item, err := s.items.WithTx(tx).GetByID(ctx, itemID, ac.EventID)
			if err != nil || item == nil {
				return nil, err
			}
			return item, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Item), nil
}

// DeleteItem removes an item. Guests cannot delete items claimed by someone
// else.
func (s *Planner) DeleteItem(ctx context.Context, creds auth.Credentials, slug string, itemID int64) error {
	var ac *auth.Context

	_, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "item.delete",
		Table:    "items",
		Action:   domain.ActionDelete,
		RecordID: itemID,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			item, err := s.items.WithTx(tx).GetByID(ctx, itemID, ac.EventID)
			if err != nil || item == nil {
				return nil, err
			}
			if err := s.checkRelease(ac, item); err != nil {
				return nil, err
			}
			return item, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			if err := s.items.WithTx(tx).Delete(ctx, itemID, ac.EventID); err != nil {
				return 0, err
			}
			return itemID, nil
		},
	})
	return err
}

// checkClaim enforces that a claim target exists in the event and, for
// guests, is their own person.
func (s *Planner) checkClaim(ctx context.Context, tx *sql.Tx, ac *auth.Context, personID int64) error {
	if ac.Kind == auth.KindGuest && personID != ac.PersonID {
		return apperr.Forbidden("guests can only claim items for themselves")
	}
	person, err := s.people.WithTx(tx).GetByID(ctx, personID, ac.EventID)
	if err != nil {
		return err
	}
	if person == nil {
		return apperr.NotFound("people", personID)
	}
	return nil
}

// checkRelease enforces that guests cannot take away another person's claim.
func (s *Planner) checkRelease(ac *auth.Context, item *domain.Item) error {
	if ac.Kind != auth.KindGuest {
		return nil
	}
	if item.PersonID != nil && *item.PersonID != ac.PersonID {
		return apperr.Forbidden("item is claimed by someone else")
	}
	return nil
}
