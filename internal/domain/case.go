package domain

import "time"

// CaseStatus enumerates lifecycle states for housing cases.
type CaseStatus string

const (
	CaseStatusOpen          CaseStatus = "open"
	CaseStatusInProgress    CaseStatus = "in_progress"
	CaseStatusPendingReview CaseStatus = "pending_review"
	CaseStatusClosed        CaseStatus = "closed"
	CaseStatusArchived      CaseStatus = "archived"
)

// CasePriority enumerates case urgency.
type CasePriority string

const (
	CasePriorityLow      CasePriority = "low"
	CasePriorityMedium   CasePriority = "medium"
	CasePriorityHigh     CasePriority = "high"
	CasePriorityCritical CasePriority = "critical"
)

// CaseStatuses lists every known status in display order.
var CaseStatuses = []CaseStatus{
	CaseStatusOpen,
	CaseStatusInProgress,
	CaseStatusPendingReview,
	CaseStatusClosed,
	CaseStatusArchived,
}

// CasePriorities lists every known priority from lowest to highest.
var CasePriorities = []CasePriority{
	CasePriorityLow,
	CasePriorityMedium,
	CasePriorityHigh,
	CasePriorityCritical,
}

// Case is a single housing-issue record.
type Case struct {
	ID                 string       `json:"id"`
	CaseNumber         string       `json:"caseNumber"`
	ClientName         string       `json:"clientName"`
	ClientEmail        string       `json:"clientEmail"`
	ClientPhone        string       `json:"clientPhone"`
	Status             CaseStatus   `json:"status"`
	Priority           CasePriority `json:"priority"`
	PropertyAddress    string       `json:"propertyAddress"`
	PropertyCity       string       `json:"propertyCity"`
	PropertyProvince   string       `json:"propertyProvince"`
	PropertyPostalCode string       `json:"propertyPostalCode"`
	IssueType          string       `json:"issueType"`
	Description        string       `json:"description"`
	AssignedTo         string       `json:"assignedTo,omitempty"`
	Notes              string       `json:"notes"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
	CreatedBy          string       `json:"createdBy"`
	LastModifiedBy     string       `json:"lastModifiedBy"`
}

// CreateCaseRequest carries the fields supplied when opening a case.
type CreateCaseRequest struct {
	ClientName         string       `json:"clientName"`
	ClientEmail        string       `json:"clientEmail"`
	ClientPhone        string       `json:"clientPhone"`
	PropertyAddress    string       `json:"propertyAddress"`
	PropertyCity       string       `json:"propertyCity"`
	PropertyProvince   string       `json:"propertyProvince"`
	PropertyPostalCode string       `json:"propertyPostalCode"`
	IssueType          string       `json:"issueType"`
	Description        string       `json:"description"`
	Priority           CasePriority `json:"priority"`
}

// UpdateCaseRequest is a partial update; nil fields are left unchanged.
type UpdateCaseRequest struct {
	Status      *CaseStatus   `json:"status,omitempty"`
	Priority    *CasePriority `json:"priority,omitempty"`
	AssignedTo  *string       `json:"assignedTo,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	IssueType   *string       `json:"issueType,omitempty"`
	Description *string       `json:"description,omitempty"`
}

// ApplyTo merges the provided fields over c.
func (r UpdateCaseRequest) ApplyTo(c *Case) {
	if r.Status != nil {
		c.Status = *r.Status
	}
	if r.Priority != nil {
		c.Priority = *r.Priority
	}
	if r.AssignedTo != nil {
		c.AssignedTo = *r.AssignedTo
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
	if r.IssueType != nil {
		c.IssueType = *r.IssueType
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
}

// DashboardStats aggregates counts over every stored case.
type DashboardStats struct {
	TotalCases            int     `json:"totalCases"`
	OpenCases             int     `json:"openCases"`
	InProgressCases       int     `json:"inProgressCases"`
	ClosedCases           int     `json:"closedCases"`
	CriticalCases         int     `json:"criticalCases"`
	AverageResolutionTime float64 `json:"averageResolutionTime"`
}

// DistributionEntry is one bucket of a case report.
type DistributionEntry struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CaseReport breaks the case population down by status, priority and issue type.
type CaseReport struct {
	TotalCases  int                 `json:"totalCases"`
	ByStatus    []DistributionEntry `json:"byStatus"`
	ByPriority  []DistributionEntry `json:"byPriority"`
	ByIssueType []DistributionEntry `json:"byIssueType"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
