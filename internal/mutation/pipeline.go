// Package mutation orchestrates every state-changing action: validate the
// payload, authorize the caller, snapshot the old row, apply the write,
// snapshot the new row, append an audit record, and signal invalidation.
//
// The step order is a hard contract. Validation runs before authorization and
// before any row I/O, so malformed requests can never probe for protected
// resources. A denied caller reaches neither reads nor writes. Snapshots and
// the write share one transaction, so the recorded before/after images are
// the ones the write actually saw. Concurrent requests against the same row
// are serialized only by sqlite itself; there is no optimistic concurrency
// token, so two racing updates can interleave between transactions
// (last-writer-wins, an accepted limitation of the design).
package mutation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/invalidate"
	"github.com/ajoux/festin/internal/validation"
)

// Mutation declares one named state-changing action. The closures are
// supplied by the service layer and run inside the pipeline's transaction.
type Mutation struct {
	// Name identifies the action in logs, e.g. "meal.update".
	Name string
	// Table is the audited table name.
	Table string
	// Action classifies the mutation for the audit record.
	Action domain.AuditAction
	// RecordID is the target row for update/delete (known up-front);
	// ignored for create.
	RecordID int64
	// Input is validated against its struct tags before anything else
	// runs. Nil skips validation (payload-free actions).
	Input any

	// Authorize resolves the caller's capability for the target scope.
	Authorize func(ctx context.Context) (*auth.Context, error)
	// Snapshot reads the target row before the write. Returning (nil, nil)
	// means the row does not exist. Not called for create.
	Snapshot func(ctx context.Context, tx *sql.Tx) (any, error)
	// Apply performs the write and returns the affected row's id.
	Apply func(ctx context.Context, tx *sql.Tx) (int64, error)
	// After re-reads the row after the write. Not called for delete.
	After func(ctx context.Context, tx *sql.Tx, id int64) (any, error)
}

// auditAppender is the subset of store.AuditStore the pipeline requires.
type auditAppender interface {
	Append(ctx context.Context, rec *domain.AuditRecord) (int64, error)
}

// changeEmitter is the subset of invalidate.Hub the pipeline requires.
type changeEmitter interface {
	Emit(c invalidate.Change)
}

// Pipeline executes mutations. It is safe for concurrent use.
type Pipeline struct {
	db        *sql.DB
	validator *validation.Validator
	audit     auditAppender
	hub       changeEmitter
	logger    *slog.Logger
}

func NewPipeline(db *sql.DB, validator *validation.Validator, audit auditAppender, hub changeEmitter, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		db:        db,
		validator: validator,
		audit:     audit,
		hub:       hub,
		logger:    logger,
	}
}

// Execute runs m through the full pipeline and returns the post-write state
// (nil for deletes).
func (p *Pipeline) Execute(ctx context.Context, m Mutation) (any, error) {
	// 1. Validate, before authorization and before any I/O.
	if m.Input != nil {
		if err := p.validator.Validate(m.Input); err != nil {
			return nil, err
		}
	}

	// 2. Authorize. Deny means no row is read or written.
	ac, err := m.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// 3. Snapshot old state inside the write transaction.
	var oldData json.RawMessage
	if m.Action != domain.ActionCreate {
		old, err := m.Snapshot(ctx, tx)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		if old == nil {
			return nil, apperr.NotFound(m.Table, m.RecordID)
		}
		oldData, err = json.Marshal(old)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("marshal old state: %w", err))
		}
	}

	// 4. Apply the write.
	recordID, err := m.Apply(ctx, tx)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	// 5. Snapshot new state.
	var result any
	var newData json.RawMessage
	if m.Action != domain.ActionDelete {
		result, err = m.After(ctx, tx, recordID)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		if result == nil {
			return nil, apperr.Storage(fmt.Errorf("%s %d vanished after write", m.Table, recordID))
		}
		newData, err = json.Marshal(result)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("marshal new state: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Storage(err)
	}
	committed = true

	// 6. Append the audit record. Best-effort: a failure here is logged and
	// never rolls back the committed business write.
	p.appendAudit(ctx, m, ac, recordID, oldData, newData)

	// 7. Signal invalidation, keyed by event scope.
	scope := ac.EventID
	if scope == 0 && m.Table == "events" {
		// Event creation has no prior scope; the new row is the scope.
		scope = recordID
	}
	p.hub.Emit(invalidate.Change{EventID: scope, Table: m.Table})

	return result, nil
}

func (p *Pipeline) appendAudit(ctx context.Context, m Mutation, ac *auth.Context, recordID int64, oldData, newData json.RawMessage) {
	meta := MetaFromContext(ctx)
	rec := &domain.AuditRecord{
		Action:    m.Action,
		TableName: m.Table,
		RecordID:  recordID,
		UserID:    ac.UserID,
		OldData:   oldData,
		NewData:   newData,
		UserIP:    meta.IP,
		UserAgent: meta.UserAgent,
		Referer:   meta.Referer,
	}

	if _, err := p.audit.Append(ctx, rec); err != nil {
		p.logger.Error("audit append failed",
			"mutation", m.Name,
			"table", m.Table,
			"record_id", recordID,
			"error", err,
		)
		return
	}

	p.logger.Debug("mutation audited",
		"mutation", m.Name,
		"action", string(m.Action),
		"table", m.Table,
		"record_id", recordID,
	)
}
