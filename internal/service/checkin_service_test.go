package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/checkin"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/observability"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

func newTestCheckInService(eventRepo *fakeEventRepo, regRepo *fakeRegistrationRepo, checkins *fakeCheckInRepo, persist bool) *CheckInService {
	return NewCheckInService(CheckInDependencies{
		EventRepo:        eventRepo,
		RegistrationRepo: regRepo,
		CheckInRepo:      checkins,
		Sessions:         checkin.NewManager(time.Hour),
		Metrics:          observability.NewMetrics(),
		PersistScans:     persist,
	})
}

func TestOpenSessionUnknownEvent(t *testing.T) {
	svc := newTestCheckInService(newFakeEventRepo(), newFakeRegistrationRepo(newFakeEventRepo()), nil, false)

	_, err := svc.OpenSession(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestScanUnknownSession(t *testing.T) {
	svc := newTestCheckInService(newFakeEventRepo(), newFakeRegistrationRepo(newFakeEventRepo()), nil, false)

	_, err := svc.Scan(context.Background(), "missing", "TICKET|x|y|z")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestScanPersistsSuccessfulCheckIns(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	regSvc, regRepo := newTestRegistrationService(eventRepo)
	ctx := context.Background()

	reg, err := regSvc.Register(ctx, "e1", testUser("u1", "Alice"))
	require.NoError(t, err)

	checkins := &fakeCheckInRepo{}
	svc := newTestCheckInService(eventRepo, regRepo, checkins, true)

	session, err := svc.OpenSession(ctx, "e1")
	require.NoError(t, err)

	record, err := svc.Scan(ctx, session.ID, reg.TicketQRData)
	require.NoError(t, err)
	assert.Equal(t, domain.ScanResultSuccess, record.Result)
	assert.Equal(t, []string{reg.ID}, checkins.recorded)

	// Duplicates and errors never persist.
	record, err = svc.Scan(ctx, session.ID, reg.TicketQRData)
	require.NoError(t, err)
	assert.Equal(t, domain.ScanResultDuplicate, record.Result)

	_, err = svc.Scan(ctx, session.ID, "garbage")
	require.NoError(t, err)
	assert.Len(t, checkins.recorded, 1)
}

func TestScanAbsorbsPersistenceFailure(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	regSvc, regRepo := newTestRegistrationService(eventRepo)
	ctx := context.Background()

	reg, err := regSvc.Register(ctx, "e1", testUser("u1", "Alice"))
	require.NoError(t, err)

	checkins := &fakeCheckInRepo{fail: errors.New("storage down")}
	svc := newTestCheckInService(eventRepo, regRepo, checkins, true)

	session, err := svc.OpenSession(ctx, "e1")
	require.NoError(t, err)

	// The attendee still checks in; the bookkeeping failure stays internal.
	record, err := svc.Scan(ctx, session.ID, reg.TicketQRData)
	require.NoError(t, err)
	assert.Equal(t, domain.ScanResultSuccess, record.Result)
	assert.Equal(t, 1, session.Stats().Successful)
}

func TestEndToEndCapacityScenario(t *testing.T) {
	event := testEvent(2)
	eventRepo := newFakeEventRepo(event)
	regSvc, regRepo := newTestRegistrationService(eventRepo)
	checkinSvc := newTestCheckInService(eventRepo, regRepo, nil, false)
	ctx := context.Background()

	alice := testUser("u1", "Alice")
	bob := testUser("u2", "Bob")
	carol := testUser("u3", "Carol")

	regA, err := regSvc.Register(ctx, "e1", alice)
	require.NoError(t, err)
	assert.Equal(t, "TICKET|"+regA.ID+"|Alice|My Event", regA.TicketQRData)

	_, err = regSvc.Register(ctx, "e1", bob)
	require.NoError(t, err)

	stored, _ := eventRepo.GetByID(ctx, "e1")
	assert.Equal(t, 2, stored.Registered)

	_, err = regSvc.Register(ctx, "e1", carol)
	assert.Equal(t, "EVENT_FULL", apperrors.ToDomainError(err).Code)
	stored, _ = eventRepo.GetByID(ctx, "e1")
	assert.Equal(t, 2, stored.Registered)

	require.NoError(t, regSvc.Unregister(ctx, "e1", alice))
	stored, _ = eventRepo.GetByID(ctx, "e1")
	assert.Equal(t, 1, stored.Registered)

	// A fresh session only snapshots Bob; Alice's old ticket is stale.
	session, err := checkinSvc.OpenSession(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.SnapshotSize())

	record, err := checkinSvc.Scan(ctx, session.ID, regA.TicketQRData)
	require.NoError(t, err)
	assert.Equal(t, domain.ScanResultError, record.Result)
	assert.Equal(t, "not found", record.UserEmail)
}

func TestSessionResetAndClose(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	regSvc, regRepo := newTestRegistrationService(eventRepo)
	svc := newTestCheckInService(eventRepo, regRepo, nil, false)
	ctx := context.Background()

	reg, err := regSvc.Register(ctx, "e1", testUser("u1", "Alice"))
	require.NoError(t, err)

	session, err := svc.OpenSession(ctx, "e1")
	require.NoError(t, err)

	_, err = svc.Scan(ctx, session.ID, reg.TicketQRData)
	require.NoError(t, err)
	require.NoError(t, svc.ResetSession(session.ID))
	assert.Zero(t, session.Stats().Total())

	require.NoError(t, svc.CloseSession(session.ID))
	err = svc.CloseSession(session.ID)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
