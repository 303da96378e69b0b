package domain

import "time"

// ActivityType captures what happened to a case.
type ActivityType string

const (
	ActivityCreated  ActivityType = "created"
	ActivityUpdated  ActivityType = "updated"
	ActivityArchived ActivityType = "archived"
)

// CaseActivity is an immutable audit trail entry.
type CaseActivity struct {
	ID         string         `json:"id"`
	CaseID     string         `json:"caseId"`
	CaseNumber string         `json:"caseNumber"`
	Type       ActivityType   `json:"type"`
	ActorID    string         `json:"actorId"`
	Changes    map[string]any `json:"changes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
