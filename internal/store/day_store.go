package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

type DayStore struct {
	q Querier
}

func NewDayStore(db *sql.DB) *DayStore {
	return &DayStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *DayStore) WithTx(tx *sql.Tx) *DayStore {
	return &DayStore{q: tx}
}

// Create appends a day at max(position)+1 within the event.
func (s *DayStore) Create(ctx context.Context, eventID int64, date string) (*domain.Day, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO days (event_id, date, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM days WHERE event_id = ?))
	`, eventID, date, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to create day: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id, eventID)
}

func (s *DayStore) GetByID(ctx context.Context, id, eventID int64) (*domain.Day, error) {
	day := &domain.Day{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, event_id, date, position FROM days WHERE id = ? AND event_id = ?
	`, id, eventID).Scan(&day.ID, &day.EventID, &day.Date, &day.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day: %w", err)
	}
	return day, nil
}

func (s *DayStore) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Day, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, event_id, date, position FROM days
		WHERE event_id = ? ORDER BY position ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	defer rows.Close()

	var days []*domain.Day
	for rows.Next() {
		day := &domain.Day{}
		if err := rows.Scan(&day.ID, &day.EventID, &day.Date, &day.Position); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating days: %w", err)
	}
	return days, nil
}

func (s *DayStore) Delete(ctx context.Context, id, eventID int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM days WHERE id = ? AND event_id = ?
	`, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete day: %w", err)
	}
	return requireRow(result, "day")
}
