// Package audit records who did what in the admin area. Events are
// append-only; stores keep the recent trail for the admin activity view.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryGovernance covers actions that change published content or
	// proposal links. They are the record of what the Safe owners decided.
	CategoryGovernance EventCategory = "governance"

	// CategorySecurity covers sign-in outcomes and refused admin actions.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Subject   string        `json:"subject"`
	Action    string        `json:"action"`
	Decision  string        `json:"decision,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	// ActorID is the wallet address of the admin who acted.
	ActorID string `json:"actor_id,omitempty"`
}

type AuditEvent string

const (
	// Auth events
	EventAdminSignedIn     AuditEvent = "admin_signed_in"
	EventAdminSignedOut    AuditEvent = "admin_signed_out"
	EventAdminSignInFailed AuditEvent = "admin_sign_in_failed"

	// Blog events
	EventDraftPublished      AuditEvent = "draft_published"
	EventDraftPublishRefused AuditEvent = "draft_publish_refused"
	EventDraftProposalSet    AuditEvent = "draft_proposal_set"

	// Application events
	EventApplicationProposalSet AuditEvent = "application_proposal_set"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDraftPublished:         CategoryGovernance,
	EventDraftProposalSet:       CategoryGovernance,
	EventApplicationProposalSet: CategoryGovernance,

	EventAdminSignInFailed:   CategorySecurity,
	EventDraftPublishRefused: CategorySecurity,

	EventAdminSignedIn:  CategoryOperations,
	EventAdminSignedOut: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
