package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/observability"
	"github.com/spec-kit/event-registration-service/internal/repository"
	"github.com/spec-kit/event-registration-service/internal/ticket"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// RegistrationService owns the registration ledger workflows: registering
// under capacity, ticket issuance, unregistration and counter repair.
type RegistrationService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	dispatcher    events.Dispatcher
	cache         *StatsCache
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// RegistrationDependencies bundles collaborators for the service.
type RegistrationDependencies struct {
	EventRepo        repository.EventRepository
	RegistrationRepo repository.RegistrationRepository
	Dispatcher       events.Dispatcher
	Cache            *StatsCache
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		events:        deps.EventRepo,
		registrations: deps.RegistrationRepo,
		dispatcher:    deps.Dispatcher,
		cache:         deps.Cache,
		metrics:       deps.Metrics,
		logger:        logger,
	}
}

// Register books a spot for the user. Preconditions are enforced in order:
// no duplicate registration, event open, capacity available. The whole
// check-then-act sequence runs inside one storage transaction, so the
// denormalized counter cannot drift on this path.
func (s *RegistrationService) Register(ctx context.Context, eventID string, user *domain.User) (*domain.Registration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordRegistration("not_found")
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}

	reg := &domain.Registration{
		ID:           uuid.NewString(),
		EventID:      event.ID,
		UserID:       user.ID,
		UserName:     user.Name,
		UserEmail:    user.Email,
		RegisteredAt: time.Now().UTC(),
	}
	reg.TicketQRData = ticket.Encode(reg.ID, reg.UserName, event.Title)

	if err := s.registrations.Register(ctx, reg); err != nil {
		return nil, s.mapRegisterError(err, eventID)
	}

	s.metrics.RecordRegistration("success")
	s.invalidateStats(ctx, event.ID)
	s.publish(ctx, events.Event{
		Type:    events.EventRegistrationCreated,
		EventID: event.ID,
		Payload: events.RegistrationCreatedPayload{
			RegistrationID: reg.ID,
			UserName:       reg.UserName,
			UserEmail:      reg.UserEmail,
			EventTitle:     event.Title,
			TicketQRData:   reg.TicketQRData,
		},
	})
	return reg, nil
}

// Unregister releases the user's spot and decrements the counter.
func (s *RegistrationService) Unregister(ctx context.Context, eventID string, user *domain.User) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return apperrors.MapError(err)
	}

	removed, err := s.registrations.Unregister(ctx, eventID, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("registration", map[string]any{"event_id": eventID})
		}
		return apperrors.MapError(err)
	}

	s.metrics.RecordRegistration("cancelled")
	s.invalidateStats(ctx, eventID)
	s.publish(ctx, events.Event{
		Type:    events.EventRegistrationCancelled,
		EventID: eventID,
		Payload: events.RegistrationCancelledPayload{
			RegistrationID: removed.ID,
			UserEmail:      removed.UserEmail,
			EventTitle:     event.Title,
		},
	})
	return nil
}

// Reconcile recomputes the denormalized registered counter from the
// authoritative rows. Idempotent; retained as a defensive repair tool.
func (s *RegistrationService) Reconcile(ctx context.Context, eventID string) (int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return 0, apperrors.MapError(err)
	}

	corrected, err := s.registrations.Reconcile(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return 0, apperrors.MapError(err)
	}

	if corrected != event.Registered {
		s.logger.Warn("registered counter drift repaired",
			zap.String("event_id", eventID),
			zap.Int("previous", event.Registered),
			zap.Int("corrected", corrected))
	}
	s.invalidateStats(ctx, eventID)
	s.publish(ctx, events.Event{
		Type:    events.EventCounterReconciled,
		EventID: eventID,
		Payload: events.CounterReconciledPayload{
			PreviousCount:  event.Registered,
			CorrectedCount: corrected,
		},
	})
	return corrected, nil
}

// ListForUser returns the user's registrations, newest first.
func (s *RegistrationService) ListForUser(ctx context.Context, userID string) ([]domain.Registration, error) {
	regs, err := s.registrations.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return regs, nil
}

// ListForEvent returns all registrations for an event.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}
	regs, err := s.registrations.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return regs, nil
}

// TicketQR renders the PNG QR image for a registration. Only the ticket
// holder or an admin may fetch it.
func (s *RegistrationService) TicketQR(ctx context.Context, registrationID string, requester *domain.User, size int) ([]byte, error) {
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("registration", map[string]any{"registration_id": registrationID})
		}
		return nil, apperrors.MapError(err)
	}
	if reg.UserID != requester.ID && !requester.IsAdmin() {
		return nil, apperrors.NewForbidden("not your ticket")
	}

	code := reg.TicketQRData
	if code == "" {
		// Issued before QR data was cached on the row; rebuild from the event.
		event, err := s.events.GetByID(ctx, reg.EventID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		code = ticket.Encode(reg.ID, reg.UserName, event.Title)
	}

	png, err := ticket.RenderQR(code, size)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return png, nil
}

func (s *RegistrationService) mapRegisterError(err error, eventID string) error {
	details := map[string]any{"event_id": eventID}
	switch {
	case errors.Is(err, repository.ErrDuplicateRegistration):
		s.metrics.RecordRegistration("duplicate")
		return apperrors.NewConflict("DUPLICATE_REGISTRATION", "already registered for this event", details)
	case errors.Is(err, repository.ErrEventClosed):
		s.metrics.RecordRegistration("closed")
		return apperrors.NewConflict("EVENT_CLOSED", "event is closed for registration", details)
	case errors.Is(err, repository.ErrEventFull):
		s.metrics.RecordRegistration("full")
		return apperrors.NewConflict("EVENT_FULL", "event is at full capacity", details)
	case errors.Is(err, repository.ErrNotFound):
		s.metrics.RecordRegistration("not_found")
		return apperrors.NewNotFound("event", details)
	default:
		s.metrics.RecordRegistration("error")
		return apperrors.MapError(err)
	}
}

// invalidateStats drops the cached capacity metrics. Cache failures are
// logged, never surfaced: the registration already succeeded and the entry
// expires on its own TTL anyway.
func (s *RegistrationService) invalidateStats(ctx context.Context, eventID string) {
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *RegistrationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
