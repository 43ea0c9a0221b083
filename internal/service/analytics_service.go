package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/event-registration-service/internal/analytics"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// AnalyticsService serves capacity metrics and growth projections. It is
// strictly read-only over the ledger.
type AnalyticsService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	cache         *StatsCache
	logger        *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(events repository.EventRepository, registrations repository.RegistrationRepository, cache *StatsCache, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{events: events, registrations: registrations, cache: cache, logger: logger}
}

// EventMetrics computes fill metrics for an event, served from the Redis
// cache when warm. Cache failures degrade to a direct read.
func (s *AnalyticsService) EventMetrics(ctx context.Context, eventID string) (analytics.CapacityMetrics, string, error) {
	cached, err := s.cache.Get(ctx, eventID)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("event_id", eventID), zap.Error(err))
	}
	if cached != nil {
		return *cached, analytics.AlertMessage(*cached), nil
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return analytics.CapacityMetrics{}, "", apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return analytics.CapacityMetrics{}, "", apperrors.MapError(err)
	}

	metrics := analytics.Compute(event.Registered, event.Capacity)
	if err := s.cache.Set(ctx, eventID, metrics); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("event_id", eventID), zap.Error(err))
	}
	return metrics, analytics.AlertMessage(metrics), nil
}

// Forecast projects the registration count daysAhead days forward. With a
// historical series available the projection is a linear fit over actual
// registration times; otherwise it falls back to the flat growth estimate.
func (s *AnalyticsService) Forecast(ctx context.Context, eventID string, daysAhead int) (int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return 0, apperrors.MapError(err)
	}

	timestamps, err := s.registrations.TimestampsForEvent(ctx, eventID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if len(timestamps) == 0 {
		return analytics.EstimateFutureRegistrations(event.Registered, daysAhead), nil
	}
	return analytics.EstimateFromSeries(timestamps, daysAhead), nil
}
