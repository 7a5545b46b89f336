package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/repository"
)

var ErrUnknownActivityType = errors.New("unknown activity type")

type ActivityService struct {
	activities repository.Collection[model.Activity]
	now        func() time.Time
}

func NewActivityService(activities repository.Collection[model.Activity]) *ActivityService {
	return &ActivityService{
		activities: activities,
		now:        time.Now,
	}
}

// LogActivity appends one event. The id is the current epoch milliseconds.
func (s *ActivityService) LogActivity(ctx context.Context, userID, userEmail, activityType, details string, metadata map[string]any) (*model.Activity, error) {
	if !model.IsActivityType(activityType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivityType, activityType)
	}

	now := s.now().UTC()
	activity := model.Activity{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		UserID:    userID,
		UserEmail: userEmail,
		Type:      activityType,
		Details:   details,
		Timestamp: now,
		Metadata:  metadata,
	}

	if err := s.activities.AppendOne(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	slog.Debug("activity logged", "type", activityType, "email", userEmail)
	return &activity, nil
}

func (s *ActivityService) All(ctx context.Context) ([]model.Activity, error) {
	activities, err := s.activities.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return activities, nil
}

// Recent returns at most n activities, newest first
func (s *ActivityService) Recent(ctx context.Context, n int) ([]model.Activity, error) {
	activities, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(activities, n, func(a model.Activity) time.Time { return a.Timestamp }), nil
}

// newestFirst sorts a copy by descending timestamp, keeping later-appended
// records first on ties, and truncates to n (n <= 0 keeps all)
func newestFirst[T any](records []T, n int, ts func(T) time.Time) []T {
	out := slices.Clone(records)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b T) int {
		return ts(b).Compare(ts(a))
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
