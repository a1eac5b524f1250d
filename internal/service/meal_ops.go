package service

import (
	"context"
	"database/sql"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/mutation"
)

type CreateMealInput struct {
	DayID    int64  `json:"dayId" validate:"required,gte=1"`
	Title    string `json:"title" validate:"required,max=200"`
	Time     string `json:"time" validate:"max=50"`
	Address  string `json:"address" validate:"max=500"`
	Adults   int    `json:"adults" validate:"gte=0"`
	Children int    `json:"children" validate:"gte=0"`
}

// AddMeal appends a meal to a day, at the end of the day's sequence.
func (s *Planner) AddMeal(ctx context.Context, creds auth.Credentials, slug string, in CreateMealInput) (*domain.Meal, error) {
	var ac *auth.Context

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "meal.create",
		Table:  "meals",
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
			meal, err := s.meals.WithTx(tx).Create(ctx, in.DayID, ac.EventID,
				in.Title, in.Time, in.Address, in.Adults, in.Children)
			if err != nil {
				return 0, err
			}
			if meal == nil {
				return 0, apperr.NotFound("days", in.DayID)
			}
			return meal.ID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, mealID int64) (any, error) {
			meal, err := s.meals.WithTx(tx).GetByID(ctx, mealID, ac.EventID)
			if err != nil || meal == nil {
				return nil, err
			}
			return meal, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Meal), nil
}

type UpdateMealInput struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Time     *string `json:"time" validate:"omitempty,max=50"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Adults   *int    `json:"adults" validate:"omitempty,gte=0"`
	Children *int    `json:"children" validate:"omitempty,gte=0"`
}

// UpdateMeal patches a meal's fields.
func (s *Planner) UpdateMeal(ctx context.Context, creds auth.Credentials, slug string, mealID int64, in UpdateMealInput) (*domain.Meal, error) {
	var ac *auth.Context
	var old *domain.Meal

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "meal.update",
		Table:    "meals",
		Action:   domain.ActionUpdate,
		RecordID: mealID,
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
			meal, err := s.meals.WithTx(tx).GetByID(ctx, mealID, ac.EventID)
			if err != nil || meal == nil {
				return nil, err
			}
			old = meal
			return meal, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			err := s.meals.WithTx(tx).Update(ctx, mealID, ac.EventID,
				strOr(in.Title, old.Title),
				strOr(in.Time, old.Time),
				strOr(in.Address, old.Address),
				intOr(in.Adults, old.Adults),
				intOr(in.Children, old.Children))
			if err != nil {
				return 0, err
			}
			return mealID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, mealID int64) (any, error) {
			meal, err := s.meals.WithTx(tx).GetByID(ctx, mealID, ac.EventID)
			if err != nil || meal == nil {
				return nil, err
			}
			return meal, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Meal), nil
}

// DeleteMeal removes a meal and its items.
func (s *Planner) DeleteMeal(ctx context.Context, creds auth.Credentials, slug string, mealID int64) error {
	var ac *auth.Context

	_, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "meal.delete",
		Table:    "meals",
		Action:   domain.ActionDelete,
		RecordID: mealID,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			meal, err := s.meals.WithTx(tx).GetByID(ctx, mealID, ac.EventID)
			if err != nil || meal == nil {
				return nil, err
			}
			return meal, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			if err := s.meals.WithTx(tx).Delete(ctx, mealID, ac.EventID); err != nil {
				return 0, err
			}
			return mealID, nil
		},
	})
	return err
}

type ReorderMealsInput struct {
	DayID   int64   `json:"dayId" validate:"required,gte=1"`
	MealIDs []int64 `json:"mealIds" validate:"required,min=1,dive,gte=1"`
}

// ReorderMeals rewrites the day's meal sequence to match the given order.
// Each position is written as its own mutation, so the sequence is not atomic
// across rows: a failure part-way leaves a non-dense ordering, which reads
// tolerate (position, then id). Positions already in place are skipped and
// produce no audit record.
func (s *Planner) ReorderMeals(ctx context.Context, creds auth.Credentials, slug string, in ReorderMealsInput) ([]*domain.Meal, error) {
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	reordered := make([]*domain.Meal, 0, len(in.MealIDs))
	for pos, mealID := range in.MealIDs {
		meal, err := s.reorderOne(ctx, creds, slug, in.DayID, mealID, pos)
		if err != nil {
			return nil, err
		}
		reordered = append(reordered, meal)
	}
	return reordered, nil
}

func (s *Planner) reorderOne(ctx context.Context, creds auth.Credentials, slug string, dayID, mealID int64, position int) (*domain.Meal, error) {
	// Skip rows already in place so no-op writes produce no audit record.
	pre, err := s.policy.Authorize(ctx, slug, creds)
	if err != nil {
		return nil, err
	}
	current, err := s.meals.GetByID(ctx, mealID, pre.EventID)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if current == nil || current.DayID != dayID {
		return nil, apperr.NotFound("meals", mealID)
	}
	if current.Position == position {
		return current, nil
	}

	var ac *auth.Context

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:     "meal.reorder",
		Table:    "meals",
		Action:   domain.ActionUpdate,
		RecordID: mealID,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			a, err := s.policy.Authorize(ctx, slug, creds)
			if err != nil {
				return nil, err
			}
			ac = a
			return a, nil
		},
		Snapshot: func(ctx context.Context, tx *sql.Tx) (any, error) {
			meal, err := s.meals.WithTx(tx).GetByID(ctx, mealID, ac.EventID)
			if err != nil || meal == nil {
				return nil, err
			}
			if meal.DayID != dayID {
				return nil, apperr.NotFound("meals", mealID)
			}
			return meal, nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			if err := s.meals.WithTx(tx).UpdatePosition(ctx, mealID, ac.EventID, position); err != nil {
				return 0, err
			}
			return mealID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, mealID int64) (any, error) {
			meal, err := s.meals.WithTx(tx).GetByID(ctx, mealID, ac.EventID)
			if err != nil || meal == nil {
				return nil, err
			}
			return meal, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Meal), nil
}
