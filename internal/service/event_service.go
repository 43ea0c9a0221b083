package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

const maxCapacity = 100_000

// EventService coordinates event administration.
type EventService struct {
	events repository.EventRepository
}

// NewEventService constructs the service.
func NewEventService(events repository.EventRepository) *EventService {
	return &EventService{events: events}
}

// EventCreateInput describes the event creation payload. Capacity zero
// means registrations are not capacity-limited.
type EventCreateInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
}

// CreateEvent validates the input and persists a new event.
func (s *EventService) CreateEvent(ctx context.Context, input EventCreateInput) (*domain.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.Capacity < 0 {
		return nil, apperrors.NewValidationError("capacity cannot be negative", nil)
	}
	if input.Capacity > maxCapacity {
		return nil, apperrors.NewValidationError("capacity too large", map[string]any{"max": maxCapacity})
	}

	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt,
		Capacity:    input.Capacity,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// GetEvent returns a single event.
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// ListEvents returns events, newest first.
func (s *EventService) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	events, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return events, nil
}

// SetClosed gates or re-opens new registrations for an event.
func (s *EventService) SetClosed(ctx context.Context, id string, closed bool) (*domain.Event, error) {
	if err := s.events.SetClosed(ctx, id, closed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return s.GetEvent(ctx, id)
}
