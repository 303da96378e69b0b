package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

const maxCreateAttempts = 10

// ArchivedMessage confirms a successful archive.
const ArchivedMessage = "Case archived successfully"

// CaseService is the case access layer: every read and mutation of the case store goes through it.
type CaseService struct {
	cases      repository.CaseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.CasesConfig
	now        func() time.Time
	newID      func() string
}

// CaseDependencies bundles collaborators for the case service.
type CaseDependencies struct {
	CaseRepo   repository.CaseRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock and IDGenerator default to time.Now and uuid.NewString.
	Clock       func() time.Time
	IDGenerator func() string
}

// CaseListFilter describes a List call. Nil filters do not constrain.
type CaseListFilter struct {
	Page     int
	PageSize int
	Status   *domain.CaseStatus
	Priority *domain.CasePriority
}

// CaseList is one page of filtered cases plus the pre-pagination total.
type CaseList struct {
	Data     []domain.Case `json:"data"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// NewCaseService constructs the service.
func NewCaseService(cfg config.CasesConfig, deps CaseDependencies) *CaseService {
	s := &CaseService{
		cases:      deps.CaseRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cfg:        cfg,
		now:        deps.Clock,
		newID:      deps.IDGenerator,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.cfg.DefaultPageSize <= 0 {
		s.cfg.DefaultPageSize = 10
	}
	if s.cfg.NumberWidth <= 0 {
		s.cfg.NumberWidth = 3
	}
	return s
}

// ListCases filters by status and priority, keeps insertion order and returns the requested page.
func (s *CaseService) ListCases(ctx context.Context, filter CaseListFilter) (*CaseList, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	page, pageSize := s.normalizePage(filter.Page, filter.PageSize)

	all, err := s.cases.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	matched := make([]domain.Case, 0, len(all))
	for _, c := range all {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, c)
	}

	start, end := pageWindow(page, pageSize, len(matched))

	return &CaseList{
		Data:     matched[start:end],
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetCase fetches a case by id.
func (s *CaseService) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return c, nil
}

// CreateCase opens a new case on behalf of actorID. Request fields are stored verbatim.
func (s *CaseService) CreateCase(ctx context.Context, actorID string, req domain.CreateCaseRequest) (*domain.Case, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	count, err := s.cases.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.timestamp()
	c := &domain.Case{
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		ClientPhone:        req.ClientPhone,
		Status:             domain.CaseStatusOpen,
		Priority:           req.Priority,
		PropertyAddress:    req.PropertyAddress,
		PropertyCity:       req.PropertyCity,
		PropertyProvince:   req.PropertyProvince,
		PropertyPostalCode: req.PropertyPostalCode,
		IssueType:          req.IssueType,
		Description:        req.Description,
		Notes:              "",
		CreatedAt:          now,
		UpdatedAt:          now,
		CreatedBy:          actorID,
		LastModifiedBy:     actorID,
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		c.ID = s.newID()
		c.CaseNumber = s.caseNumber(count + 1 + attempt)
		if _, err := s.cases.GetByID(ctx, c.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrCaseNotFound) {
			return nil, apperrors.NewInternalError(err)
		}

		err := s.cases.Create(ctx, c)
		if errors.Is(err, repository.ErrCaseConflict) {
			continue
		}
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		s.logger.Info("case created",
			zap.String("case_id", c.ID),
			zap.String("case_number", c.CaseNumber),
			zap.String("actor_id", actorID))
		s.publishEvent(ctx, events.Event{
			Type:       events.EventCaseCreated,
			CaseID:     c.ID,
			CaseNumber: c.CaseNumber,
			ActorID:    actorID,
			Payload: events.CaseCreatedPayload{
				Priority:  c.Priority,
				IssueType: c.IssueType,
				City:      c.PropertyCity,
				Province:  c.PropertyProvince,
			},
		})
		return c, nil
	}
	return nil, apperrors.NewConflict("could not allocate a unique case id and number", map[string]any{
		"attempts": maxCreateAttempts,
	})
}

// UpdateCase merges the provided fields over the stored case.
func (s *CaseService) UpdateCase(ctx context.Context, actorID, id string, req domain.UpdateCaseRequest) (*domain.Case, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	var before domain.Case
	updated, err := s.cases.Update(ctx, id, func(c *domain.Case) {
		before = *c
		req.ApplyTo(c)
		c.UpdatedAt = s.mutationTime(c)
		c.LastModifiedBy = actorID
	})
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	changes := diffCase(before, *updated)
	s.logger.Info("case updated",
		zap.String("case_id", updated.ID),
		zap.String("case_number", updated.CaseNumber),
		zap.String("actor_id", actorID),
		zap.Int("changed_fields", len(changes)))
	s.publishEvent(ctx, events.Event{
		Type:       events.EventCaseUpdated,
		CaseID:     updated.ID,
		CaseNumber: updated.CaseNumber,
		ActorID:    actorID,
		Payload:    events.CaseUpdatedPayload{Changes: changes},
	})
	return updated, nil
}

// ArchiveCase is the soft delete: the case moves to archived and stays listable.
func (s *CaseService) ArchiveCase(ctx context.Context, actorID, id string) (string, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return "", err
	}

	var previous domain.CaseStatus
	archived, err := s.cases.Update(ctx, id, func(c *domain.Case) {
		previous = c.Status
		c.Status = domain.CaseStatusArchived
		c.UpdatedAt = s.mutationTime(c)
		c.LastModifiedBy = actorID
	})
	if err != nil {
		return "", s.mapRepoError(err, id)
	}

	s.logger.Info("case archived",
		zap.String("case_id", archived.ID),
		zap.String("case_number", archived.CaseNumber),
		zap.String("actor_id", actorID))
	s.publishEvent(ctx, events.Event{
		Type:       events.EventCaseArchived,
		CaseID:     archived.ID,
		CaseNumber: archived.CaseNumber,
		ActorID:    actorID,
		Payload:    events.CaseArchivedPayload{PreviousStatus: previous},
	})
	return ArchivedMessage, nil
}

// Stats aggregates dashboard counters over every case.
func (s *CaseService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	all, err := s.cases.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	stats := &domain.DashboardStats{TotalCases: len(all)}
	var resolvedDays float64
	for _, c := range all {
		switch c.Status {
		case domain.CaseStatusOpen:
			stats.OpenCases++
		case domain.CaseStatusInProgress:
			stats.InProgressCases++
		case domain.CaseStatusClosed:
			stats.ClosedCases++
			resolvedDays += c.UpdatedAt.Sub(c.CreatedAt).Hours() / 24
		}
		if c.Priority == domain.CasePriorityCritical {
			stats.CriticalCases++
		}
	}

	switch s.cfg.ResolutionMode {
	case config.ResolutionFixed:
		stats.AverageResolutionTime = s.cfg.FixedResolutionDays
	default:
		if stats.ClosedCases > 0 {
			stats.AverageResolutionTime = roundTenth(resolvedDays / float64(stats.ClosedCases))
		}
	}
	return stats, nil
}

// Report computes status, priority and issue type distributions.
func (s *CaseService) Report(ctx context.Context) (*domain.CaseReport, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	all, err := s.cases.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	statusCounts := map[string]int{}
	priorityCounts := map[string]int{}
	issueCounts := map[string]int{}
	for _, c := range all {
		statusCounts[string(c.Status)]++
		priorityCounts[string(c.Priority)]++
		issueCounts[c.IssueType]++
	}

	statusKeys := make([]string, 0, len(domain.CaseStatuses))
	for _, st := range domain.CaseStatuses {
		statusKeys = append(statusKeys, string(st))
	}
	priorityKeys := make([]string, 0, len(domain.CasePriorities))
	for _, p := range domain.CasePriorities {
		priorityKeys = append(priorityKeys, string(p))
	}

	return &domain.CaseReport{
		TotalCases:  len(all),
		ByStatus:    distribution(statusCounts, statusKeys, len(all)),
		ByPriority:  distribution(priorityCounts, priorityKeys, len(all)),
		ByIssueType: rankedDistribution(issueCounts, len(all)),
		GeneratedAt: s.timestamp(),
	}, nil
}

func (s *CaseService) simulateLatency(ctx context.Context) error {
	if s.cfg.SimulatedLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.cfg.SimulatedLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// normalizePage clamps pagination into a usable window.
func (s *CaseService) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	return page, pageSize
}

// pageWindow returns the slice bounds of a page over n items. It compares before
// multiplying so huge page numbers land past the end instead of overflowing.
func pageWindow(page, pageSize, n int) (int, int) {
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return n, n
	}
	start := (page - 1) * pageSize
	if pageSize > n-start {
		return start, n
	}
	return start, start + pageSize
}

func (s *CaseService) caseNumber(seq int) string {
	return fmt.Sprintf("%s%0*d", s.cfg.NumberPrefix, s.cfg.NumberWidth, seq)
}

// timestamp is truncated so it survives a round trip through every store backend.
func (s *CaseService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// mutationTime never precedes the case's creation time.
func (s *CaseService) mutationTime(c *domain.Case) time.Time {
	now := s.timestamp()
	if now.Before(c.CreatedAt) {
		return c.CreatedAt
	}
	return now
}

func (s *CaseService) mapRepoError(err error, id string) error {
	if errors.Is(err, repository.ErrCaseNotFound) {
		return apperrors.NewCaseNotFound(id)
	}
	return apperrors.NewInternalError(err)
}

func (s *CaseService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.timestamp()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("case_id", event.CaseID),
			zap.Error(err))
	}
}

func diffCase(before, after domain.Case) map[string]events.FieldChange {
	changes := map[string]events.FieldChange{}
	add := func(field string, old, next any) {
		if old != next {
			changes[field] = events.FieldChange{Old: old, New: next}
		}
	}
	add("status", before.Status, after.Status)
	add("priority", before.Priority, after.Priority)
	add("assignedTo", before.AssignedTo, after.AssignedTo)
	add("notes", before.Notes, after.Notes)
	add("issueType", before.IssueType, after.IssueType)
	add("description", before.Description, after.Description)
	return changes
}

// distribution reports the fixed keys in order, then any unexpected keys alphabetically.
func distribution(counts map[string]int, keys []string, total int) []domain.DistributionEntry {
	known := make(map[string]struct{}, len(keys))
	out := make([]domain.DistributionEntry, 0, len(keys))
	for _, k := range keys {
		known[k] = struct{}{}
		out = append(out, entry(k, counts[k], total))
	}
	var extra []string
	for k := range counts {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, entry(k, counts[k], total))
	}
	return out
}

// rankedDistribution orders by count descending, then key.
func rankedDistribution(counts map[string]int, total int) []domain.DistributionEntry {
	out := make([]domain.DistributionEntry, 0, len(counts))
	for k, n := range counts {
		out = append(out, entry(k, n, total))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func entry(key string, count, total int) domain.DistributionEntry {
	e := domain.DistributionEntry{Key: key, Count: count}
	if total > 0 {
		e.Percent = roundTenth(float64(count) * 100 / float64(total))
	}
	return e
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
