package events

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseCreated  EventType = "case_created"
	EventCaseUpdated  EventType = "case_updated"
	EventCaseArchived EventType = "case_archived"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CaseID     string      `json:"case_id"`
	CaseNumber string      `json:"case_number"`
	ActorID    string      `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CaseCreatedPayload payload.
type CaseCreatedPayload struct {
	Priority  domain.CasePriority `json:"priority"`
	IssueType string              `json:"issue_type"`
	City      string              `json:"city"`
	Province  string              `json:"province"`
}

// FieldChange records a before/after pair.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// CaseUpdatedPayload lists the fields that actually changed.
type CaseUpdatedPayload struct {
	Changes map[string]FieldChange `json:"changes"`
}

// CaseArchivedPayload payload.
type CaseArchivedPayload struct {
	PreviousStatus domain.CaseStatus `json:"previous_status"`
}
