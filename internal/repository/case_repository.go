package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/case-service/internal/domain"
)

var (
	// ErrCaseNotFound is returned when no case carries the requested id.
	ErrCaseNotFound = errors.New("case not found")
	// ErrCaseConflict is returned when a case id or case number is already taken.
	ErrCaseConflict = errors.New("case id or number already exists")
)

// CaseMutator edits a stored case in place.
type CaseMutator func(c *domain.Case)

// CaseRepository is the ordered case store. List preserves insertion order.
type CaseRepository interface {
	List(ctx context.Context) ([]domain.Case, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	Create(ctx context.Context, c *domain.Case) error
	Update(ctx context.Context, id string, mutate CaseMutator) (*domain.Case, error)
}
