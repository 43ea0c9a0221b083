package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeFull(t *testing.T) {
	m := Compute(10, 10)
	assert.True(t, m.IsFull)
	assert.True(t, m.IsNearFull)
	assert.Equal(t, AlertCritical, m.AlertLevel)
	assert.Equal(t, 0, m.SpotsRemaining)
	assert.InDelta(t, 100, m.Percentage, 0.001)
}

func TestComputeNearFull(t *testing.T) {
	m := Compute(8, 10)
	assert.False(t, m.IsFull)
	assert.True(t, m.IsNearFull)
	assert.Equal(t, AlertWarning, m.AlertLevel)
	assert.Equal(t, 2, m.SpotsRemaining)
	assert.InDelta(t, 80, m.Percentage, 0.001)
}

func TestComputeLevels(t *testing.T) {
	assert.Equal(t, AlertGood, Compute(5, 10).AlertLevel)
	assert.Equal(t, AlertOptimal, Compute(2, 10).AlertLevel)
	assert.Equal(t, AlertOptimal, Compute(0, 10).AlertLevel)
}

func TestComputeUnlimitedCapacity(t *testing.T) {
	m := Compute(500, 0)
	assert.False(t, m.IsFull)
	assert.False(t, m.IsNearFull)
	assert.Equal(t, AlertOptimal, m.AlertLevel)
	assert.Zero(t, m.Percentage)
	assert.Zero(t, m.SpotsRemaining)
}

func TestComputeOverbookedClampsSpots(t *testing.T) {
	m := Compute(12, 10)
	assert.True(t, m.IsFull)
	assert.Equal(t, 0, m.SpotsRemaining)
}

func TestAlertMessagePriority(t *testing.T) {
	assert.Equal(t, "Event is at full capacity", AlertMessage(Compute(10, 10)))
	assert.Equal(t, "Event is nearly full", AlertMessage(Compute(8, 10)))
	assert.Equal(t, "Registrations are low for this event", AlertMessage(Compute(0, 10)))
	assert.Empty(t, AlertMessage(Compute(5, 10)))
	assert.Empty(t, AlertMessage(Compute(100, 0)))
}

func TestEstimateFutureRegistrations(t *testing.T) {
	// 10% weekly growth: 100 registrations over 7 days -> 110.
	assert.Equal(t, 110, EstimateFutureRegistrations(100, 7))
	// Never projects backwards.
	assert.GreaterOrEqual(t, EstimateFutureRegistrations(3, 1), 3)
	assert.Equal(t, 0, EstimateFutureRegistrations(0, 30))
	assert.Equal(t, 42, EstimateFutureRegistrations(42, 0))
}

func TestEstimateFromSeries(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 6 registrations spanning 5 days -> rate 1.2/day -> +6 over 5 days.
	series := make([]time.Time, 0, 6)
	for i := 0; i < 6; i++ {
		series = append(series, base.Add(time.Duration(i*24)*time.Hour))
	}
	assert.Equal(t, 12, EstimateFromSeries(series, 5))

	assert.Equal(t, 0, EstimateFromSeries(nil, 7))

	// Series spanning under a day falls back to the flat estimate.
	short := []time.Time{base, base.Add(time.Hour)}
	assert.Equal(t, EstimateFutureRegistrations(2, 7), EstimateFromSeries(short, 7))
}
