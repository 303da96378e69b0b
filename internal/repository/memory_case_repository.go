package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/case-service/internal/domain"
)

type memoryCaseRepository struct {
	mu      sync.RWMutex
	cases   []domain.Case
	byID    map[string]int
	numbers map[string]struct{}
}

// NewMemoryCaseRepository returns an empty process-lifetime store.
func NewMemoryCaseRepository() CaseRepository {
	return &memoryCaseRepository{
		byID:    make(map[string]int),
		numbers: make(map[string]struct{}),
	}
}

func (r *memoryCaseRepository) List(_ context.Context) ([]domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Case, len(r.cases))
	copy(out, r.cases)
	return out, nil
}

func (r *memoryCaseRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cases), nil
}

func (r *memoryCaseRepository) GetByID(_ context.Context, id string) (*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrCaseNotFound
	}
	c := r.cases[idx]
	return &c, nil
}

func (r *memoryCaseRepository) Create(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byID[c.ID]; taken {
		return ErrCaseConflict
	}
	if _, taken := r.numbers[c.CaseNumber]; taken {
		return ErrCaseConflict
	}
	r.cases = append(r.cases, *c)
	r.byID[c.ID] = len(r.cases) - 1
	r.numbers[c.CaseNumber] = struct{}{}
	return nil
}

func (r *memoryCaseRepository) Update(_ context.Context, id string, mutate CaseMutator) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrCaseNotFound
	}
	updated := r.cases[idx]
	mutate(&updated)
	// id and case number are immutable
	updated.ID = r.cases[idx].ID
	updated.CaseNumber = r.cases[idx].CaseNumber
	r.cases[idx] = updated
	return &updated, nil
}
