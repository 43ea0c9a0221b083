package dto

import (
	"time"

	"github.com/spec-kit/event-registration-service/internal/analytics"
)

// CreateEventRequest payload. Capacity zero means unlimited.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
}

// EventResponse is the public event shape.
type EventResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartsAt       time.Time `json:"starts_at"`
	Capacity       int       `json:"capacity"`
	Registered     int       `json:"registered"`
	SpotsRemaining int       `json:"spots_remaining"`
	IsClosed       bool      `json:"is_closed"`
	IsFull         bool      `json:"is_full"`
	CreatedAt      time.Time `json:"created_at"`
}

// EventMetricsResponse wraps capacity metrics with the alert message.
type EventMetricsResponse struct {
	analytics.CapacityMetrics
	AlertMessage string `json:"alert_message,omitempty"`
}

// ForecastResponse is the growth projection result.
type ForecastResponse struct {
	EventID   string `json:"event_id"`
	DaysAhead int    `json:"days_ahead"`
	Projected int    `json:"projected_registrations"`
}

// ReconcileResponse reports the repaired counter.
type ReconcileResponse struct {
	EventID        string `json:"event_id"`
	CorrectedCount int    `json:"corrected_count"`
}
