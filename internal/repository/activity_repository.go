package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/case-service/internal/domain"
)

// ActivityRepository stores the case audit trail.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.CaseActivity) error
	ListRecent(ctx context.Context, limit int) ([]domain.CaseActivity, error)
	ListByCase(ctx context.Context, caseID string) ([]domain.CaseActivity, error)
}

type memoryActivityRepository struct {
	mu       sync.RWMutex
	entries  []domain.CaseActivity
	capacity int
}

// NewMemoryActivityRepository keeps at most capacity entries, dropping the oldest first.
// A non-positive capacity keeps everything.
func NewMemoryActivityRepository(capacity int) ActivityRepository {
	return &memoryActivityRepository{capacity: capacity}
}

func (r *memoryActivityRepository) Create(_ context.Context, entry *domain.CaseActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if r.capacity > 0 && len(r.entries) > r.capacity {
		r.entries = append([]domain.CaseActivity(nil), r.entries[len(r.entries)-r.capacity:]...)
	}
	return nil
}

// ListRecent returns newest entries first.
func (r *memoryActivityRepository) ListRecent(_ context.Context, limit int) ([]domain.CaseActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]domain.CaseActivity, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// ListByCase returns a case's entries oldest first.
func (r *memoryActivityRepository) ListByCase(_ context.Context, caseID string) ([]domain.CaseActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.CaseActivity{}
	for _, e := range r.entries {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}
