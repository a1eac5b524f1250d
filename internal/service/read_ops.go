package service

import (
	"context"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/domain"
)

// EventDetail is the full plan of one event, the shape the UI renders from.
// Secrets (admin key, guest tokens) never appear here; the domain types hide
// them from JSON.
type EventDetail struct {
	Event  *domain.Event    `json:"event"`
	Days   []*DayDetail     `json:"days"`
	People []*domain.Person `json:"people"`
}

type DayDetail struct {
	Day   *domain.Day   `json:"day"`
	Meals []*MealDetail `json:"meals"`
}

type MealDetail struct {
	Meal  *domain.Meal   `json:"meal"`
	Items []*domain.Item `json:"items"`
}

// ResolveEventID maps a slug to its event id without loading the tree.
func (s *Planner) ResolveEventID(ctx context.Context, slug string) (int64, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return 0, apperr.FromStore(err)
	}
	if event == nil {
		return 0, apperr.NotFoundMsg("event not found")
	}
	return event.ID, nil
}

// GetEvent loads an event's whole tree. Reads are public: anyone with the
// link sees the plan.
func (s *Planner) GetEvent(ctx context.Context, slug string) (*EventDetail, error) {
	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if event == nil {
		return nil, apperr.NotFoundMsg("event not found")
	}

	days, err := s.days.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	detail := &EventDetail{Event: event, Days: make([]*DayDetail, 0, len(days))}
	for _, day := range days {
		meals, err := s.meals.ListByDay(ctx, day.ID)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		dd := &DayDetail{Day: day, Meals: make([]*MealDetail, 0, len(meals))}
		for _, meal := range meals {
			items, err := s.items.ListByMeal(ctx, meal.ID)
			if err != nil {
				return nil, apperr.FromStore(err)
			}
			if items == nil {
				items = []*domain.Item{}
			}
			dd.Meals = append(dd.Meals, &MealDetail{Meal: meal, Items: items})
		}
		detail.Days = append(detail.Days, dd)
	}

	people, err := s.people.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if people == nil {
		people = []*domain.Person{}
	}
	detail.People = people

	return detail, nil
}
