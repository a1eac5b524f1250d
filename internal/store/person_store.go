package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

type PersonStore struct {
	q Querier
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *PersonStore) WithTx(tx *sql.Tx) *PersonStore {
	return &PersonStore{q: tx}
}

func (s *PersonStore) Create(ctx context.Context, eventID int64, name, emoji, guestToken string, userID *int64) (*domain.Person, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO people (event_id, name, emoji, guest_token, user_id)
		VALUES (?, ?, ?, ?, ?)
	`, eventID, name, emoji, guestToken, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id, eventID)
}

func (s *PersonStore) GetByID(ctx context.Context, id, eventID int64) (*domain.Person, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, event_id, name, emoji, user_id, guest_token, created_at
		FROM people WHERE id = ? AND event_id = ?
	`, id, eventID))
}

func (s *PersonStore) GetByGuestToken(ctx context.Context, eventID int64, token string) (*domain.Person, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, event_id, name, emoji, user_id, guest_token, created_at
		FROM people WHERE event_id = ? AND guest_token = ?
	`, eventID, token))
}

func (s *PersonStore) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Person, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, event_id, name, emoji, user_id, guest_token, created_at
		FROM people WHERE event_id = ? ORDER BY name ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []*domain.Person
	for rows.Next() {
		person := &domain.Person{}
		if err := rows.Scan(&person.ID, &person.EventID, &person.Name, &person.Emoji,
			&person.UserID, &person.GuestToken, &person.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating people: %w", err)
	}
	return people, nil
}

func (s *PersonStore) Update(ctx context.Context, id, eventID int64, name, emoji string) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE people SET name = ?, emoji = ? WHERE id = ? AND event_id = ?
	`, name, emoji, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return requireRow(result, "person")
}

func (s *PersonStore) Delete(ctx context.Context, id, eventID int64) error {
	result, err := s.q.ExecContext(ctx, `
		DELETE FROM people WHERE id = ? AND event_id = ?
	`, id, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return requireRow(result, "person")
}

func (s *PersonStore) scanOne(row *sql.Row) (*domain.Person, error) {
	person := &domain.Person{}
	err := row.Scan(&person.ID, &person.EventID, &person.Name, &person.Emoji,
		&person.UserID, &person.GuestToken, &person.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}
