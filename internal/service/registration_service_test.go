package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/events"
	"github.com/spec-kit/event-registration-service/internal/observability"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

func newTestRegistrationService(eventRepo *fakeEventRepo) (*RegistrationService, *fakeRegistrationRepo) {
	regRepo := newFakeRegistrationRepo(eventRepo)
	svc := NewRegistrationService(RegistrationDependencies{
		EventRepo:        eventRepo,
		RegistrationRepo: regRepo,
		Dispatcher:       events.NewInMemoryDispatcher(),
		Metrics:          observability.NewMetrics(),
	})
	return svc, regRepo
}

func testEvent(capacity int) *domain.Event {
	return &domain.Event{
		ID:       "e1",
		Title:    "My Event",
		StartsAt: time.Now().Add(24 * time.Hour),
		Capacity: capacity,
	}
}

func testUser(id, name string) *domain.User {
	return &domain.User{
		ID:     id,
		Name:   name,
		Email:  name + "@example.com",
		Role:   domain.UserRoleAttendee,
		Status: domain.UserStatusActive,
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).Code
}

func TestRegisterIssuesTicket(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	svc, _ := newTestRegistrationService(eventRepo)

	reg, err := svc.Register(context.Background(), "e1", testUser("u1", "Alice"))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.ID)
	assert.Equal(t, fmt.Sprintf("TICKET|%s|Alice|My Event", reg.ID), reg.TicketQRData)
	assert.False(t, reg.RegisteredAt.IsZero())

	event, err := eventRepo.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, event.Registered)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestRegistrationService(newFakeEventRepo(testEvent(10)))
	user := testUser("u1", "Alice")

	_, err := svc.Register(context.Background(), "e1", user)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "e1", user)
	assert.Equal(t, "DUPLICATE_REGISTRATION", domainCode(t, err))
}

func TestRegisterClosedEvent(t *testing.T) {
	event := testEvent(10)
	event.IsClosed = true
	svc, _ := newTestRegistrationService(newFakeEventRepo(event))

	_, err := svc.Register(context.Background(), "e1", testUser("u1", "Alice"))
	assert.Equal(t, "EVENT_CLOSED", domainCode(t, err))
}

func TestRegisterFullEvent(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(1))
	svc, _ := newTestRegistrationService(eventRepo)

	_, err := svc.Register(context.Background(), "e1", testUser("u1", "Alice"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "e1", testUser("u2", "Bob"))
	assert.Equal(t, "EVENT_FULL", domainCode(t, err))

	event, _ := eventRepo.GetByID(context.Background(), "e1")
	assert.Equal(t, 1, event.Registered)
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc, _ := newTestRegistrationService(newFakeEventRepo())

	_, err := svc.Register(context.Background(), "nope", testUser("u1", "Alice"))
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestUnregister(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	svc, _ := newTestRegistrationService(eventRepo)
	user := testUser("u1", "Alice")

	_, err := svc.Register(context.Background(), "e1", user)
	require.NoError(t, err)

	require.NoError(t, svc.Unregister(context.Background(), "e1", user))

	event, _ := eventRepo.GetByID(context.Background(), "e1")
	assert.Equal(t, 0, event.Registered)

	err = svc.Unregister(context.Background(), "e1", user)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestCapacityInvariantUnderSerializedCalls(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(3))
	svc, regRepo := newTestRegistrationService(eventRepo)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		user := testUser(fmt.Sprintf("u%d", i), fmt.Sprintf("User%d", i))
		_, _ = svc.Register(ctx, "e1", user)

		event, _ := eventRepo.GetByID(ctx, "e1")
		assert.GreaterOrEqual(t, event.Registered, 0)
		assert.LessOrEqual(t, event.Registered, event.Capacity)

		live, _ := regRepo.ListForEvent(ctx, "e1")
		assert.Equal(t, len(live), event.Registered)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	svc, _ := newTestRegistrationService(eventRepo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "e1", testUser("u1", "Alice"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, "e1", testUser("u2", "Bob"))
	require.NoError(t, err)

	// Simulate counter drift from a storage anomaly.
	eventRepo.events["e1"].Registered = 7

	first, err := svc.Reconcile(ctx, "e1")
	require.NoError(t, err)
	second, err := svc.Reconcile(ctx, "e1")
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, first, second)

	event, _ := eventRepo.GetByID(ctx, "e1")
	assert.Equal(t, 2, event.Registered)
}

func TestListForUserNewestFirst(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	_, regRepo := newTestRegistrationService(eventRepo)
	ctx := context.Background()

	older := domain.Registration{ID: "r1", EventID: "e1", UserID: "u1", RegisteredAt: time.Now().Add(-time.Hour)}
	newer := domain.Registration{ID: "r2", EventID: "e1", UserID: "u1", RegisteredAt: time.Now()}
	regRepo.regs["r1"] = older
	regRepo.regs["r2"] = newer

	regs, err := regRepo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "r2", regs[0].ID)
}

func TestTicketQROwnership(t *testing.T) {
	eventRepo := newFakeEventRepo(testEvent(10))
	svc, _ := newTestRegistrationService(eventRepo)
	ctx := context.Background()

	alice := testUser("u1", "Alice")
	reg, err := svc.Register(ctx, "e1", alice)
	require.NoError(t, err)

	png, err := svc.TicketQR(ctx, reg.ID, alice, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	mallory := testUser("u9", "Mallory")
	_, err = svc.TicketQR(ctx, reg.ID, mallory, 0)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	admin := testUser("u8", "Root")
	admin.Role = domain.UserRoleAdmin
	_, err = svc.TicketQR(ctx, reg.ID, admin, 0)
	assert.NoError(t, err)
}
