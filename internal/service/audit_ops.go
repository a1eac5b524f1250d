package service

import (
	"context"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/store"
)

type AuditQueryInput struct {
	Table    string `json:"table" validate:"omitempty,oneof=users events days meals items people"`
	Action   string `json:"action" validate:"omitempty,oneof=create update delete"`
	UserID   *int64 `json:"userId" validate:"omitempty,gte=1"`
	RecordID int64  `json:"recordId" validate:"omitempty,gte=1"`
	Limit    int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// QueryAudit reads the change log, newest-first. Admin sessions only: event
// keys and guest tokens grant no audit access.
func (s *Planner) QueryAudit(ctx context.Context, creds auth.Credentials, in AuditQueryInput) ([]*domain.AuditRecord, error) {
	if creds.Claims == nil {
		return nil, apperr.Unauthenticated("")
	}
	if creds.Claims.Role != domain.RoleAdmin {
		return nil, apperr.Forbidden("audit log requires an admin session")
	}
	if err := s.validator.Validate(&in); err != nil {
		return nil, err
	}

	records, err := s.audit.Query(ctx, store.AuditFilter{
		TableName: in.Table,
		Action:    domain.AuditAction(in.Action),
		UserID:    in.UserID,
		RecordID:  in.RecordID,
		Limit:     in.Limit,
	})
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	return records, nil
}
