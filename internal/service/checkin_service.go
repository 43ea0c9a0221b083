package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/event-registration-service/internal/checkin"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/observability"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// CheckInService runs door check-in sessions over registration snapshots.
type CheckInService struct {
	eventRepo    repository.EventRepository
	regRepo      repository.RegistrationRepository
	checkinRepo  repository.CheckInRepository
	sessions     *checkin.Manager
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	persistScans bool
}

// CheckInDependencies bundles collaborators for the service.
type CheckInDependencies struct {
	EventRepo        repository.EventRepository
	RegistrationRepo repository.RegistrationRepository
	CheckInRepo      repository.CheckInRepository
	Sessions         *checkin.Manager
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	PersistScans     bool
}

// NewCheckInService constructs the service.
func NewCheckInService(deps CheckInDependencies) *CheckInService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckInService{
		eventRepo:    deps.EventRepo,
		regRepo:      deps.RegistrationRepo,
		checkinRepo:  deps.CheckInRepo,
		sessions:     deps.Sessions,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       logger,
		persistScans: deps.PersistScans,
	}
}

// OpenSession snapshots the event's registrations and starts a session.
// The snapshot is not refreshed per scan; late registrations need a new
// session.
func (s *CheckInService) OpenSession(ctx context.Context, eventID string) (*checkin.Session, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, apperrors.MapError(err)
	}

	regs, err := s.regRepo.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	session := s.sessions.Open(eventID, regs)
	s.logger.Info("check-in session opened",
		zap.String("session_id", session.ID),
		zap.String("event_id", eventID),
		zap.Int("snapshot_size", session.SnapshotSize()))
	return session, nil
}

// Session returns a live session.
func (s *CheckInService) Session(sessionID string) (*checkin.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, apperrors.NewNotFound("check-in session", map[string]any{"session_id": sessionID})
	}
	return session, nil
}

// Scan classifies one raw ticket scan within a session. Scan problems are
// data, not errors: a bad code classifies the record, the call itself only
// fails when the session is gone.
func (s *CheckInService) Scan(ctx context.Context, sessionID, raw string) (domain.CheckInRecord, error) {
	session, err := s.Session(sessionID)
	if err != nil {
		return domain.CheckInRecord{}, err
	}

	record := session.ProcessScan(raw, time.Now().UTC())
	s.metrics.RecordScan(string(record.Result))

	if record.Result == domain.ScanResultSuccess {
		s.persistScan(ctx, session.EventID, record)
	}

	s.publishScan(ctx, session, record)
	return record, nil
}

// ResetSession clears records and counters but keeps the snapshot.
func (s *CheckInService) ResetSession(sessionID string) error {
	session, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	return nil
}

// CloseSession discards a session and its tally.
func (s *CheckInService) CloseSession(sessionID string) error {
	if !s.sessions.Close(sessionID) {
		return apperrors.NewNotFound("check-in session", map[string]any{"session_id": sessionID})
	}
	return nil
}

// persistScan writes the attendance row when persistence is enabled. A
// failed write is logged and absorbed: the scan already counted in the
// session and the attendee must not be turned away over bookkeeping.
func (s *CheckInService) persistScan(ctx context.Context, eventID string, record domain.CheckInRecord) {
	if !s.persistScans || s.checkinRepo == nil {
		return
	}
	err := s.checkinRepo.Record(ctx, uuid.NewString(), eventID, record.TicketID, record.ScannedAt)
	if err != nil {
		s.logger.Warn("check-in persistence failed",
			zap.String("event_id", eventID),
			zap.String("ticket_id", record.TicketID),
			zap.Error(err))
	}
}

func (s *CheckInService) publishScan(ctx context.Context, session *checkin.Session, record domain.CheckInRecord) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCheckInRecorded,
		EventID:   session.EventID,
		Timestamp: record.ScannedAt,
		Payload: events.CheckInRecordedPayload{
			SessionID: session.ID,
			TicketID:  record.TicketID,
			Result:    string(record.Result),
		},
	})
}
