package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

type UserStore struct {
	q Querier
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{q: db}
}

// WithTx returns a copy of the store bound to tx.
func (s *UserStore) WithTx(tx *sql.Tx) *UserStore {
	return &UserStore{q: tx}
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *UserStore) Create(ctx context.Context, email, passwordHash, role string) (*domain.User, error) {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)
	`, email, passwordHash, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?
	`, id))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?
	`, email))
}

func (s *UserStore) scanOne(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
