package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

type ItemStore struct {
	q Querier
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *ItemStore) WithTx(tx *sql.Tx) *ItemStore {
	return &ItemStore{q: tx}
}

// Create inserts an item under a meal. The meal must resolve to eventID
// through its day or no row is inserted.
func (s *ItemStore) Create(ctx context.Context, mealID, eventID int64, name, quantity string, personID *int64) (*domain.Item, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO items (meal_id, name, quantity, person_id)
		SELECT ?, ?, ?, ?
		WHERE EXISTS (
			SELECT 1 FROM meals m JOIN days d ON m.day_id = d.id
			WHERE m.id = ? AND d.event_id = ?
		)
	`, mealID, name, quantity, personID, mealID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil // meal not in this event
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id, eventID)
}

func (s *ItemStore) GetByID(ctx context.Context, id, eventID int64) (*domain.Item, error) {
	item := &domain.Item{}
	err := s.q.QueryRowContext(ctx, `
		SELECT i.id, i.meal_id, i.name, i.quantity, i.checked, i.person_id, i.created_at
		FROM items i
		JOIN meals m ON i.meal_id = m.id
		JOIN days d ON m.day_id = d.id
		WHERE i.id = ? AND d.event_id = ?
	`, id, eventID).Scan(&item.ID, &item.MealID, &item.Name, &item.Quantity,
		&item.Checked, &item.PersonID, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *ItemStore) ListByMeal(ctx context.Context, mealID int64) ([]*domain.Item, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, meal_id, name, quantity, checked, person_id, created_at FROM items
		WHERE meal_id = ? ORDER BY id ASC
	`, mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		if err := rows.Scan(&item.ID, &item.MealID, &item.Name, &item.Quantity,
			&item.Checked, &item.PersonID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func (s *ItemStore) Update(ctx context.Context, id, eventID int64, name, quantity string, checked bool, personID *int64) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE items SET name = ?, quantity = ?, checked = ?, person_id = ?
		WHERE id = ? AND meal_id IN (
			SELECT m.id FROM meals m JOIN days d ON m.day_id = d.id WHERE d.event_id = ?
		)
	`, name, quantity, checked, personID, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return requireRow(result, "item")
}

func (s *ItemStore) Delete(ctx context.Context, id, eventID int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM items
		WHERE id = ? AND meal_id IN (
			SELECT m.id FROM meals m JOIN days d ON m.day_id = d.id WHERE d.event_id = ?
		)
	`, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireRow(result, "item")
}
