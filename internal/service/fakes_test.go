package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/repository"
)

// fakeEventRepo is an in-memory repository.EventRepository.
type fakeEventRepo struct {
	events map[string]*domain.Event
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[string]*domain.Event)}
	for _, e := range events {
		copied := *e
		repo.events[e.ID] = &copied
	}
	return repo
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) List(_ context.Context, _, _ int) ([]domain.Event, error) {
	var result []domain.Event
	for _, event := range r.events {
		result = append(result, *event)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartsAt.After(result[j].StartsAt) })
	return result, nil
}

func (r *fakeEventRepo) SetClosed(_ context.Context, id string, closed bool) error {
	event, ok := r.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	event.IsClosed = closed
	return nil
}

// fakeRegistrationRepo mirrors the transactional semantics of the SQL
// implementation: preconditions checked in order, insert and counter
// increment succeed or fail together.
type fakeRegistrationRepo struct {
	events *fakeEventRepo
	regs   map[string]domain.Registration
}

func newFakeRegistrationRepo(events *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{events: events, regs: make(map[string]domain.Registration)}
}

func (r *fakeRegistrationRepo) Register(_ context.Context, reg *domain.Registration) error {
	event, ok := r.events.events[reg.EventID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.regs {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID {
			return repository.ErrDuplicateRegistration
		}
	}
	if event.IsClosed {
		return repository.ErrEventClosed
	}
	if event.Capacity > 0 && event.Registered >= event.Capacity {
		return repository.ErrEventFull
	}
	r.regs[reg.ID] = *reg
	event.Registered++
	return nil
}

func (r *fakeRegistrationRepo) Unregister(_ context.Context, eventID, userID string) (*domain.Registration, error) {
	for id, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			delete(r.regs, id)
			if event, ok := r.events.events[eventID]; ok && event.Registered > 0 {
				event.Registered--
			}
			return &reg, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRegistrationRepo) Reconcile(_ context.Context, eventID string) (int, error) {
	event, ok := r.events.events[eventID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	count := 0
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			count++
		}
	}
	event.Registered = count
	return count, nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &reg, nil
}

func (r *fakeRegistrationRepo) ListForUser(_ context.Context, userID string) ([]domain.Registration, error) {
	var result []domain.Registration
	for _, reg := range r.regs {
		if reg.UserID == userID {
			result = append(result, reg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RegisteredAt.After(result[j].RegisteredAt) })
	return result, nil
}

func (r *fakeRegistrationRepo) ListForEvent(_ context.Context, eventID string) ([]domain.Registration, error) {
	var result []domain.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			result = append(result, reg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RegisteredAt.Before(result[j].RegisteredAt) })
	return result, nil
}

func (r *fakeRegistrationRepo) TimestampsForEvent(ctx context.Context, eventID string) ([]time.Time, error) {
	regs, err := r.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	timestamps := make([]time.Time, 0, len(regs))
	for _, reg := range regs {
		timestamps = append(timestamps, reg.RegisteredAt)
	}
	return timestamps, nil
}

func regForTimestamp(id string, ts time.Time) domain.Registration {
	return domain.Registration{ID: id, EventID: "e1", UserID: "u-" + id, RegisteredAt: ts}
}

// fakeCheckInRepo captures persisted scans.
type fakeCheckInRepo struct {
	recorded []string
	fail     error
}

func (r *fakeCheckInRepo) Record(_ context.Context, _, _, registrationID string, _ time.Time) error {
	if r.fail != nil {
		return r.fail
	}
	r.recorded = append(r.recorded, registrationID)
	return nil
}

func (r *fakeCheckInRepo) CountForEvent(_ context.Context, _ string) (int, error) {
	return len(r.recorded), nil
}
