// Package audit records security-relevant events. Services emit events
// through a Publisher; a buffered worker drains them to a Store so request
// paths never block on audit persistence.
package audit

import (
	"context"
	"time"
)

type Action string

const (
	ActionUserRegistered     Action = "user.registered"
	ActionUserVerified       Action = "user.verified"
	ActionUserDeleted        Action = "user.deleted"
	ActionLoginSucceeded     Action = "login.succeeded"
	ActionLoginFailed        Action = "login.failed"
	ActionLoginLocked        Action = "login.locked"
	ActionAdminCreated       Action = "admin.created"
	ActionApplicationCreated Action = "application.created"
	ActionApplicationUpdated Action = "application.updated"
	ActionApplicationDeleted Action = "application.deleted"
	ActionDocumentAttached   Action = "document.attached"
	ActionDocumentRemoved    Action = "document.removed"
	ActionSystemInitialized  Action = "system.initialized"
)

// Event is one audit record. ActorID is the authenticated principal, if
// any; Subject identifies the affected resource.
type Event struct {
	ID        string            `json:"id"`
	Action    Action            `json:"action"`
	ActorID   string            `json:"actor_id,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher accepts events for asynchronous persistence. Emit must not
// block the caller.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// NopPublisher discards events; useful in tests.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) {}
