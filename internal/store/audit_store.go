package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ajoux/festin/internal/domain"
)

// maxAuditQueryLimit caps audit reads. There is no pagination cursor; callers
// narrow with filters instead.
const maxAuditQueryLimit = 100

// AuditStore is the append-only change log. Nothing here updates or deletes
// rows, and no such method may be added.
type AuditStore struct {
	q Querier
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{q: db}
}

// Append writes one audit record and returns its id.
func (s *AuditStore) Append(ctx context.Context, rec *domain.AuditRecord) (int64, error) {
	var oldData, newData any
	if rec.OldData != nil {
		oldData = string(rec.OldData)
	}
	if rec.NewData != nil {
		newData = string(rec.NewData)
	}

	result, err := s.q.ExecContext(ctx, `
		INSERT INTO audit_log (action, table_name, record_id, user_id, old_data, new_data, user_ip, user_agent, referer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(rec.Action), rec.TableName, rec.RecordID, rec.UserID,
		oldData, newData, rec.UserIP, rec.UserAgent, rec.Referer)
	if err != nil {
		return 0, fmt.Errorf("failed to append audit record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// AuditFilter narrows an audit query. Zero values mean "any".
type AuditFilter struct {
	TableName string
	Action    domain.AuditAction
	UserID    *int64
	RecordID  int64
	Limit     int
}

// Query returns matching records newest-first, capped at 100.
func (s *AuditStore) Query(ctx context.Context, f AuditFilter) ([]*domain.AuditRecord, error) {
	query := `
		SELECT id, action, table_name, record_id, user_id, old_data, new_data, user_ip, user_agent, referer, created_at
		FROM audit_log WHERE 1=1
	`
	var args []any
	if f.TableName != "" {
		query += " AND table_name = ?"
		args = append(args, f.TableName)
	}
	if f.Action != "" {
		query += " AND action = ?"
		args = append(args, string(f.Action))
	}
	if f.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *f.UserID)
	}
	if f.RecordID != 0 {
		query += " AND record_id = ?"
		args = append(args, f.RecordID)
	}

	limit := f.Limit
	if limit <= 0 || limit > maxAuditQueryLimit {
		limit = maxAuditQueryLimit
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		rec := &domain.AuditRecord{}
		var action string
		var oldData, newData sql.NullString
		if err := rows.Scan(&rec.ID, &action, &rec.TableName, &rec.RecordID, &rec.UserID,
			&oldData, &newData, &rec.UserIP, &rec.UserAgent, &rec.Referer, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Action = domain.AuditAction(action)
		if oldData.Valid {
			rec.OldData = []byte(oldData.String)
		}
		if newData.Valid {
			rec.NewData = []byte(newData.String)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return records, nil
}
