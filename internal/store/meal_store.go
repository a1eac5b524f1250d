package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

type MealStore struct {
	q Querier
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *MealStore) WithTx(tx *sql.Tx) *MealStore {
	return &MealStore{q: tx}
}

// Create appends a meal at max(position)+1 within the day. The day must
// belong to eventID or no row is inserted.
func (s *MealStore) Create(ctx context.Context, dayID, eventID int64, title, mealTime, address string, adults, children int) (*domain.Meal, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO meals (day_id, title, position, time, address, adults, children)
		SELECT ?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM meals WHERE day_id = ?), ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM days WHERE id = ? AND event_id = ?)
	`, dayID, title, dayID, mealTime, address, adults, children, dayID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil // day not in this event
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id, eventID)
}

func (s *MealStore) GetByID(ctx context.Context, id, eventID int64) (*domain.Meal, error) {
	meal := &domain.Meal{}
	err := s.q.QueryRowContext(ctx, `
		SELECT m.id, m.day_id, m.title, m.position, m.time, m.address, m.adults, m.children
		FROM meals m JOIN days d ON m.day_id = d.id
		WHERE m.id = ? AND d.event_id = ?
	`, id, eventID).Scan(&meal.ID, &meal.DayID, &meal.Title, &meal.Position,
		&meal.Time, &meal.Address, &meal.Adults, &meal.Children)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return meal, nil
}

func (s *MealStore) ListByDay(ctx context.Context, dayID int64) ([]*domain.Meal, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, day_id, title, position, time, address, adults, children FROM meals
		WHERE day_id = ? ORDER BY position ASC, id ASC
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []*domain.Meal
	for rows.Next() {
		meal := &domain.Meal{}
		if err := rows.Scan(&meal.ID, &meal.DayID, &meal.Title, &meal.Position,
			&meal.Time, &meal.Address, &meal.Adults, &meal.Children); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meals: %w", err)
	}
	return meals, nil
}

func (s *MealStore) Update(ctx context.Context, id, eventID int64, title, mealTime, address string, adults, children int) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE meals SET title = ?, time = ?, address = ?, adults = ?, children = ?
		WHERE id = ? AND day_id IN (SELECT id FROM days WHERE event_id = ?)
	`, title, mealTime, address, adults, children, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return requireRow(result, "meal")
}

// UpdatePosition writes one meal's position. Reorders call this once per row;
// the sequence is deliberately not atomic across rows.
func (s *MealStore) UpdatePosition(ctx context.Context, id, eventID int64, position int) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE meals SET position = ?
		WHERE id = ? AND day_id IN (SELECT id FROM days WHERE event_id = ?)
	`, position, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to update meal position: %w", err)
	}
	return requireRow(result, "meal")
}

func (s *MealStore) Delete(ctx context.Context, id, eventID int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM meals
		WHERE id = ? AND day_id IN (SELECT id FROM days WHERE event_id = ?)
	`, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return requireRow(result, "meal")
}
