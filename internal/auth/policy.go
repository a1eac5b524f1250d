package auth

import (
	"context"
	"crypto/subtle"

	"github.com/ajoux/festin/internal/apperr"
	"github.com/ajoux/festin/internal/domain"
)

// Credentials is everything a caller presented on one request. Zero or more
// fields may be set; the policy decides which, if any, grants access.
type Credentials struct {
	// Claims is the verified session, if a valid token was presented.
	Claims *Claims
	// EventKey is the per-event admin key, if presented.
	EventKey string
	// GuestToken is the per-person guest token, if presented.
	GuestToken string
}

// Anonymous reports whether no credentials at all were presented.
func (c Credentials) Anonymous() bool {
	return c.Claims == nil && c.EventKey == "" && c.GuestToken == ""
}

// Kind discriminates the authorization context sum type.
type Kind int

const (
	// KindAnonymous carries no write capability.
	KindAnonymous Kind = iota
	// KindAdmin is an admin session: global scope, all events writable.
	KindAdmin
	// KindEventKey is possession of an event's admin key: that event only.
	KindEventKey
	// KindGuest is possession of a person's guest token: that event only,
	// identity bound to that person.
	KindGuest
)

// Context is the outcome of an Allow decision.
type Context struct {
	Kind     Kind
	EventID  int64
	PersonID int64  // set only for KindGuest
	UserID   *int64 // session user, if the caller was logged in
}

// CanWrite reports whether this context grants mutations in its scope.
func (c *Context) CanWrite() bool {
	return c.Kind != KindAnonymous
}

// eventReader is the subset of store.EventStore the policy requires.
type eventReader interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Event, error)
}

// personReader is the subset of store.PersonStore the policy requires.
type personReader interface {
	GetByGuestToken(ctx context.Context, eventID int64, token string) (*domain.Person, error)
}

// Policy is the single authorization decision point for mutations. It holds
// no state beyond its store handles: decisions are pure functions of the
// stored capabilities and the presented credentials, re-evaluated on every
// call and never cached.
type Policy struct {
	events eventReader
	people personReader
}

func NewPolicy(events eventReader, people personReader) *Policy {
	return &Policy{events: events, people: people}
}

// Authorize decides whether creds may mutate the event identified by slug.
// Checks run in capability strength order: admin session, event key, guest
// token. A missing stored key or token never fails open; an empty stored
// secret matches nothing.
func (p *Policy) Authorize(ctx context.Context, slug string, creds Credentials) (*Context, error) {
	event, err := p.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if event == nil {
		return nil, apperr.NotFoundMsg("event not found")
	}

	if creds.Claims != nil && creds.Claims.Role == domain.RoleAdmin {
		uid := creds.Claims.UserID
		return &Context{Kind: KindAdmin, EventID: event.ID, UserID: &uid}, nil
	}

	if creds.EventKey != "" && secretsEqual(event.AdminKey, creds.EventKey) {
		c := &Context{Kind: KindEventKey, EventID: event.ID}
		if creds.Claims != nil {
			uid := creds.Claims.UserID
			c.UserID = &uid
		}
		return c, nil
	}

	if creds.GuestToken != "" {
		person, err := p.people.GetByGuestToken(ctx, event.ID, creds.GuestToken)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		if person != nil && secretsEqual(person.GuestToken, creds.GuestToken) {
			c := &Context{Kind: KindGuest, EventID: event.ID, PersonID: person.ID}
			if person.UserID != nil {
				c.UserID = person.UserID
			}
			return c, nil
		}
	}

	if creds.Anonymous() {
		return nil, apperr.Unauthenticated("")
	}
	return nil, apperr.Forbidden("")
}

// ResolveScope resolves the event scope without requiring a write
// capability: knowing an event's link (its slug) is itself the sharing
// capability for joining it. Presented credentials are still honored when
// they match, so a key holder joining keeps their stronger context.
func (p *Policy) ResolveScope(ctx context.Context, slug string, creds Credentials) (*Context, error) {
	c, err := p.Authorize(ctx, slug, creds)
	if err == nil {
		return c, nil
	}
	if apperr.Is(err, apperr.ErrUnauthenticated) || apperr.Is(err, apperr.ErrForbidden) {
		event, gerr := p.events.GetBySlug(ctx, slug)
		if gerr != nil {
			return nil, apperr.FromStore(gerr)
		}
		if event == nil {
			return nil, apperr.NotFoundMsg("event not found")
		}
		anon := &Context{Kind: KindAnonymous, EventID: event.ID}
		if creds.Claims != nil {
			uid := creds.Claims.UserID
			anon.UserID = &uid
		}
		return anon, nil
	}
	return nil, err
}

// Identify resolves credentials for scope-less operations (event creation is
// open to anyone). It never denies; it only attaches the session user when
// one is present.
func (p *Policy) Identify(creds Credentials) *Context {
	if creds.Claims != nil {
		uid := creds.Claims.UserID
		kind := KindAnonymous
		if creds.Claims.Role == domain.RoleAdmin {
			kind = KindAdmin
		}
		return &Context{Kind: kind, UserID: &uid}
	}
	return &Context{Kind: KindAnonymous}
}

// secretsEqual compares a stored capability secret against a presented one in
// constant time. An empty stored secret always fails.
func secretsEqual(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
