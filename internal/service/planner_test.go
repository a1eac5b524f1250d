package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/db"
	"github.com/ajoux/festin/internal/domain"
	"github.com/ajoux/festin/internal/invalidate"
	"github.com/ajoux/festin/internal/mutation"
	"github.com/ajoux/festin/internal/store"
	"github.com/ajoux/festin/internal/validation"
)

type testEnv struct {
	planner *Planner
	db      *sql.DB
	hub     *invalidate.Hub
	events  *store.EventStore
	people  *store.PersonStore
	audit   *store.AuditStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	userStore := store.NewUserStore(d)
	eventStore := store.NewEventStore(d)
	dayStore := store.NewDayStore(d)
	mealStore := store.NewMealStore(d)
	itemStore := store.NewItemStore(d)
	personStore := store.NewPersonStore(d)
	auditStore := store.NewAuditStore(d)

	validator := validation.New()
	policy := auth.NewPolicy(eventStore, personStore)
	hub := invalidate.NewHub(logger)
	pipeline := mutation.NewPipeline(d, validator, auditStore, hub, logger)

	planner := NewPlanner(pipeline, policy, tokens, validator,
		userStore, eventStore, dayStore, mealStore, itemStore, personStore, auditStore, logger)

	return &testEnv{
		planner: planner,
		db:      d,
		hub:     hub,
		events:  eventStore,
		people:  personStore,
		audit:   auditStore,
	}
}

// seedEvent inserts an event with a known slug and admin key, bypassing the
// planner's random generation so tests can present predictable credentials.
func (e *testEnv) seedEvent(t *testing.T, slug, adminKey string) *domain.Event {
	t.Helper()
	event, err := e.events.Create(context.Background(), slug, "Event "+slug, "", adminKey, nil)
	require.NoError(t, err)
	return event
}

func (e *testEnv) seedGuest(t *testing.T, eventID int64, name, token string) *domain.Person {
	t.Helper()
	person, err := e.people.Create(context.Background(), eventID, name, "", token, nil)
	require.NoError(t, err)
	return person
}

func (e *testEnv) auditCount(t *testing.T, table string, recordID int64) int {
	t.Helper()
	records, err := e.audit.Query(context.Background(), store.AuditFilter{TableName: table, RecordID: recordID})
	require.NoError(t, err)
	return len(records)
}

func (e *testEnv) lastAudit(t *testing.T, table string, recordID int64) *domain.AuditRecord {
	t.Helper()
	records, err := e.audit.Query(context.Background(), store.AuditFilter{TableName: table, RecordID: recordID})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	return records[0]
}

func keyCreds(key string) auth.Credentials {
	return auth.Credentials{EventKey: key}
}

func guestCreds(token string) auth.Credentials {
	return auth.Credentials{GuestToken: token}
}
