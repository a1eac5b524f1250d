package domain

import (
	"encoding/json"
	"time"
)

// User roles. Role gates the global admin surface (audit queries, any-event
// writes); everything else runs on per-event capabilities.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event is the top-level scope. AdminKey is a capability secret: possession
// grants write access to this event and nothing else. It is generated once at
// creation and never rotates implicitly.
type Event struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AdminKey    string    `json:"-"`
	CreatedBy   *int64    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Day struct {
	ID       int64  `json:"id"`
	EventID  int64  `json:"eventId"`
	Date     string `json:"date"` // YYYY-MM-DD
	Position int    `json:"position"`
}

// Meal positions form a dense sequence per day, assigned as max(position)+1 on
// append. The sequence is advisory: reads order by position with id as
// tie-break, so a crash mid-reorder degrades gracefully.
type Meal struct {
	ID       int64  `json:"id"`
	DayID    int64  `json:"dayId"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	Time     string `json:"time,omitempty"`
	Address  string `json:"address,omitempty"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

type Item struct {
	ID        int64     `json:"id"`
	MealID    int64     `json:"mealId"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity,omitempty"`
	Checked   bool      `json:"checked"`
	PersonID  *int64    `json:"personId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Person is a participant within one event. GuestToken is a per-person
// capability secret handed out at creation; presenting it binds the caller to
// this person's identity.
type Person struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"eventId"`
	Name       string    `json:"name"`
	Emoji      string    `json:"emoji,omitempty"`
	UserID     *int64    `json:"userId,omitempty"`
	GuestToken string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuditAction classifies a mutation for the audit trail.
type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
)

// AuditRecord is an immutable before/after snapshot of one row mutation.
// OldData and NewData are serialized at capture time, never references to live
// rows. Records are append-only; nothing in the application updates or deletes
// them. The autoincrement id plus CreatedAt is the only total order.
type AuditRecord struct {
	ID        int64           `json:"id"`
	Action    AuditAction     `json:"action"`
	TableName string          `json:"tableName"`
	RecordID  int64           `json:"recordId"`
	UserID    *int64          `json:"userId,omitempty"`
	OldData   json.RawMessage `json:"oldData,omitempty"`
	NewData   json.RawMessage `json:"newData,omitempty"`
	UserIP    string          `json:"userIp,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
	Referer   string          `json:"referer,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
