package dto

import (
	"github.com/spec-kit/case-service/internal/domain"
)

// CaseListResponse is the paged list payload.
type CaseListResponse struct {
	Data     []domain.Case `json:"data"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ActivityListResponse wraps audit entries.
type ActivityListResponse struct {
	Items []domain.CaseActivity `json:"items"`
	Count int                   `json:"count"`
}
