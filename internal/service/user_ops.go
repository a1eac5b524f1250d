package service

import (
	"context"
	"database/sql"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/mutation"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Register creates a user account. The first account on a fresh install
// becomes the admin; everyone after that is a regular user.
func (s *Planner) Register(ctx context.Context, creds auth.Credentials, in RegisterInput) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already in use")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	role := domain.RoleUser
	if count, err := s.users.Count(ctx); err != nil {
		return nil, apperr.FromStore(err)
	} else if count == 0 {
		role = domain.RoleAdmin
	}

	res, err := s.pipeline.Execute(ctx, mutation.Mutation{
		Name:   "user.register",
		Table:  "users",
		Action: domain.ActionCreate,
		Input:  &in,
		Authorize: func(ctx context.Context) (*auth.Context, error) {
			return s.policy.Identify(creds), nil
		},
		Apply: func(ctx context.Context, tx *sql.Tx) (int64, error) {
			user, err := s.users.WithTx(tx).Create(ctx, in.Email, hash, role)
			if err != nil {
				return 0, err
			}
			return user.ID, nil
		},
		After: func(ctx context.Context, tx *sql.Tx, id int64) (any, error) {
			user, err := s.users.WithTx(tx).GetByID(ctx, id)
			if err != nil || user == nil {
				return nil, err
			}
			return user, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.User), nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued session token alongside the user.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login verifies credentials and issues a session token. This is the
// black-box session contract: verify credentials, return a session with a
// user id and role.
func (s *Planner) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, in.Password) {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &LoginResult{Token: token, User: user}, nil
}
