// Package analytics computes capacity metrics and simple registration
// growth projections from an event's counts.
package analytics

import (
	"math"
	"sort"
	"time"
)

// AlertLevel grades how close an event is to capacity.
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
	AlertGood     AlertLevel = "good"
	AlertOptimal  AlertLevel = "optimal"
)

// CapacityMetrics summarises fill state for one event.
type CapacityMetrics struct {
	Registered     int        `json:"registered"`
	Capacity       int        `json:"capacity"`
	Percentage     float64    `json:"percentage"`
	SpotsRemaining int        `json:"spots_remaining"`
	IsFull         bool       `json:"is_full"`
	IsNearFull     bool       `json:"is_near_full"`
	AlertLevel     AlertLevel `json:"alert_level"`
}

// Compute derives capacity metrics from a (registered, capacity) pair.
// Capacity zero means unenforced: percentage stays 0 and the event can
// never be full.
func Compute(registered, capacity int) CapacityMetrics {
	m := CapacityMetrics{Registered: registered, Capacity: capacity}

	if capacity > 0 {
		m.Percentage = float64(registered) / float64(capacity) * 100
		m.SpotsRemaining = capacity - registered
		if m.SpotsRemaining < 0 {
			m.SpotsRemaining = 0
		}
		m.IsFull = registered >= capacity
	}
	m.IsNearFull = m.Percentage >= 80

	switch {
	case m.IsFull:
		m.AlertLevel = AlertCritical
	case m.Percentage >= 80:
		m.AlertLevel = AlertWarning
	case m.Percentage >= 50:
		m.AlertLevel = AlertGood
	default:
		m.AlertLevel = AlertOptimal
	}
	return m
}

// AlertMessage returns a human message for the highest applicable alert,
// or empty when none applies. Priority: full, then near-full, then low
// registrations.
func AlertMessage(m CapacityMetrics) string {
	switch {
	case m.IsFull:
		return "Event is at full capacity"
	case m.IsNearFull:
		return "Event is nearly full"
	case m.Capacity > 0 && m.Percentage < 25:
		return "Registrations are low for this event"
	default:
		return ""
	}
}

// weekly growth assumed when no historical series is available
const flatWeeklyGrowthRate = 0.10

// EstimateFutureRegistrations projects the registration count daysAhead
// days forward from a bare scalar, assuming flat 10%-per-week growth.
// The projection never goes below the current count.
func EstimateFutureRegistrations(currentCount, daysAhead int) int {
	if currentCount <= 0 || daysAhead <= 0 {
		return maxInt(currentCount, 0)
	}
	dailyRate := flatWeeklyGrowthRate / 7
	projected := float64(currentCount) * (1 + dailyRate*float64(daysAhead))
	estimate := int(math.Round(projected))
	return maxInt(estimate, currentCount)
}

// EstimateFromSeries projects from actual registration timestamps: the
// growth rate is count divided by the days the series spans, extended
// linearly daysAhead days. Falls back to the flat estimate when the series
// spans less than a day.
func EstimateFromSeries(registeredAt []time.Time, daysAhead int) int {
	count := len(registeredAt)
	if count == 0 || daysAhead <= 0 {
		return count
	}

	sorted := make([]time.Time, count)
	copy(sorted, registeredAt)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	daysSpanned := sorted[count-1].Sub(sorted[0]).Hours() / 24
	if daysSpanned < 1 {
		return EstimateFutureRegistrations(count, daysAhead)
	}

	rate := float64(count) / daysSpanned
	estimate := int(math.Round(float64(count) + rate*float64(daysAhead)))
	return maxInt(estimate, count)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
