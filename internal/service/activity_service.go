package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

const defaultActivityLimit = 50

// ActivityService records an audit trail of case mutations from dispatched events.
type ActivityService struct {
	dispatcher events.Dispatcher
	activity   repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, activity repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{dispatcher: dispatcher, activity: activity, logger: logger}
}

// RegisterHandlers subscribes to case events.
func (a *ActivityService) RegisterHandlers() {
	if a == nil || a.dispatcher == nil {
		return
	}
	events.SubscribeAll(a.dispatcher, a.record)
}

// Recent returns the newest entries across all cases.
func (a *ActivityService) Recent(ctx context.Context, limit int) ([]domain.CaseActivity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	entries, err := a.activity.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

// ForCase returns a single case's trail, oldest first.
func (a *ActivityService) ForCase(ctx context.Context, caseID string) ([]domain.CaseActivity, error) {
	entries, err := a.activity.ListByCase(ctx, caseID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

func (a *ActivityService) record(ctx context.Context, event events.Event) error {
	entry := &domain.CaseActivity{
		ID:         event.ID,
		CaseID:     event.CaseID,
		CaseNumber: event.CaseNumber,
		ActorID:    event.ActorID,
		CreatedAt:  event.Timestamp,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	switch payload := event.Payload.(type) {
	case events.CaseCreatedPayload:
		entry.Type = domain.ActivityCreated
		entry.Changes = map[string]any{
			"priority":  payload.Priority,
			"issueType": payload.IssueType,
		}
	case events.CaseUpdatedPayload:
		entry.Type = domain.ActivityUpdated
		entry.Changes = make(map[string]any, len(payload.Changes))
		for field, change := range payload.Changes {
			entry.Changes[field] = change
		}
	case events.CaseArchivedPayload:
		entry.Type = domain.ActivityArchived
		entry.Changes = map[string]any{
			"status": events.FieldChange{Old: payload.PreviousStatus, New: domain.CaseStatusArchived},
		}
	default:
		a.logger.Debug("ignoring event without case payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	return a.activity.Create(ctx, entry)
}
