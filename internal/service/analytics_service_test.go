package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/analytics"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

func TestEventMetricsComputesFromEvent(t *testing.T) {
	event := testEvent(10)
	event.Registered = 8
	svc := NewAnalyticsService(newFakeEventRepo(event), newFakeRegistrationRepo(newFakeEventRepo()), nil, nil)

	metrics, alert, err := svc.EventMetrics(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, analytics.AlertWarning, metrics.AlertLevel)
	assert.Equal(t, "Event is nearly full", alert)
}

func TestEventMetricsUnknownEvent(t *testing.T) {
	svc := NewAnalyticsService(newFakeEventRepo(), newFakeRegistrationRepo(newFakeEventRepo()), nil, nil)

	_, _, err := svc.EventMetrics(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestForecastUsesSeriesWhenAvailable(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(100))
	regRepo := newFakeRegistrationRepo(eventRepo)
	svc := NewAnalyticsService(eventRepo, regRepo, nil, nil)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		regRepo.regs[id] = regForTimestamp(id, base.Add(time.Duration(i*24)*time.Hour))
	}

	got, err := svc.Forecast(ctx, "e1", 5)
	require.NoError(t, err)
	timestamps, _ := regRepo.TimestampsForEvent(ctx, "e1")
	assert.Equal(t, analytics.EstimateFromSeries(timestamps, 5), got)
}

func TestForecastFallsBackToFlatGrowth(t *testing.T) {
	event := testEvent(100)
	event.Registered = 40
	svc := NewAnalyticsService(newFakeEventRepo(event), newFakeRegistrationRepo(newFakeEventRepo()), nil, nil)

	got, err := svc.Forecast(context.Background(), "e1", 7)
	require.NoError(t, err)
	assert.Equal(t, analytics.EstimateFutureRegistrations(40, 7), got)
}
