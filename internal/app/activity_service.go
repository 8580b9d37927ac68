package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	activityRepo secondary.ActivityRepository
	log          *zap.Logger
}

// NewActivityService creates a new ActivityService with injected dependencies.
func NewActivityService(activityRepo secondary.ActivityRepository, log *zap.Logger) *ActivityServiceImpl {
	return &ActivityServiceImpl{activityRepo: activityRepo, log: log}
}

// Stream returns activity rows filtered by member, book, and date range,
// oldest first.
func (s *ActivityServiceImpl) Stream(ctx context.Context, filter primary.ActivityFilter) ([]*primary.Activity, error) {
	records, err := s.activityRepo.List(ctx, secondary.ActivityFilters{
		MemberID: filter.MemberID,
		BookID:   filter.BookID,
		From:     filter.From,
		To:       filter.To,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	activities := make([]*primary.Activity, 0, len(records))
	for _, r := range records {
		activities = append(activities, recordToActivity(r))
	}
	return activities, nil
}

// Ensure ActivityServiceImpl implements the interface
var _ primary.ActivityService = (*ActivityServiceImpl)(nil)
