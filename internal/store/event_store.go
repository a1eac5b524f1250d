package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

type EventStore struct {
	q Querier
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *EventStore) WithTx(tx *sql.Tx) *EventStore {
	return &EventStore{q: tx}
}

func (s *EventStore) Create(ctx context.Context, slug, name, description, adminKey string, createdBy *int64) (*domain.Event, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO events (slug, name, description, admin_key, created_by)
		VALUES (?, ?, ?, ?, ?)
	`, slug, name, description, adminKey, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *EventStore) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, slug, name, description, admin_key, created_by, created_at
		FROM events WHERE id = ?
	`, id))
}

func (s *EventStore) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, slug, name, description, admin_key, created_by, created_at
		FROM events WHERE slug = ?
	`, slug))
}

func (s *EventStore) Update(ctx context.Context, id int64, name, description string) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE events SET name = ?, description = ? WHERE id = ?
	`, name, description, id)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return requireRow(result, "event")
}

func (s *EventStore) Delete(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM events WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireRow(result, "event")
}

func (s *EventStore) scanOne(row *sql.Row) (*domain.Event, error) {
	event := &domain.Event{}
	err := row.Scan(&event.ID, &event.Slug, &event.Name, &event.Description,
		&event.AdminKey, &event.CreatedBy, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// requireRow turns a zero-row mutation into an error. Callers that snapshot
// inside the same transaction never hit this; it guards direct use.
func requireRow(result sql.Result, table string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found", table)
	}
	return nil
}
