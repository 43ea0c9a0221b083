// Package checkin implements door check-in sessions: ephemeral, in-process
// state machines that classify ticket scans against a one-shot snapshot of
// an event's registrations.
package checkin

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/ticket"
)

const invalidScanName = "Invalid QR Code"

// Session accumulates scan records for one event. The snapshot is loaded
// once at open time; registrations created afterwards stay invisible until
// a new session is opened.
type Session struct {
	ID        string
	EventID   string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu       sync.Mutex
	snapshot map[string]domain.Registration
	records  []domain.CheckInRecord
	stats    domain.CheckInStats
}

// ProcessScan classifies one raw scan and folds it into the session.
// It never mutates the registration snapshot. The lock is held across
// classification and append so concurrent scans of the same ticket
// cannot both classify as success.
func (s *Session) ProcessScan(raw string, now time.Time) domain.CheckInRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.CheckInRecord{ScannedAt: now}

	identity := ticket.Decode(raw)
	if identity == nil {
		record.Result = domain.ScanResultError
		record.UserName = invalidScanName
		s.append(record)
		return record
	}

	record.TicketID = identity.TicketID
	reg, found := s.snapshot[identity.TicketID]
	if !found {
		record.Result = domain.ScanResultError
		record.UserName = identity.UserName
		record.UserEmail = "not found"
		s.append(record)
		return record
	}

	record.UserName = reg.UserName
	record.UserEmail = reg.UserEmail
	if s.alreadyCheckedInLocked(identity.TicketID) {
		record.Result = domain.ScanResultDuplicate
	} else {
		record.Result = domain.ScanResultSuccess
	}
	s.append(record)
	return record
}

// Reset clears records and counters. The snapshot is kept as-is.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.stats = domain.CheckInStats{}
}

// Records returns the scan log, most recent first.
func (s *Session) Records() []domain.CheckInRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CheckInRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Stats returns the accumulated counters.
func (s *Session) Stats() domain.CheckInStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// SnapshotSize returns how many registrations the session can check in.
func (s *Session) SnapshotSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshot)
}

func (s *Session) alreadyCheckedInLocked(ticketID string) bool {
	for _, rec := range s.records {
		if rec.Result == domain.ScanResultSuccess && rec.TicketID == ticketID {
			return true
		}
	}
	return false
}

// append assumes s.mu is held.
func (s *Session) append(record domain.CheckInRecord) {
	s.records = append([]domain.CheckInRecord{record}, s.records...)
	switch record.Result {
	case domain.ScanResultSuccess:
		s.stats.Successful++
	case domain.ScanResultDuplicate:
		s.stats.Duplicates++
	default:
		s.stats.Errors++
	}
}

// Manager owns the live sessions. Sessions expire after the configured TTL
// and are swept lazily on access.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open creates a session over a snapshot of the given registrations.
func (m *Manager) Open(eventID string, regs []domain.Registration) *Session {
	snapshot := make(map[string]domain.Registration, len(regs))
	for _, reg := range regs {
		snapshot[reg.ID] = reg
	}

	now := m.now()
	session := &Session{
		ID:        uuid.NewString(),
		EventID:   eventID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		snapshot:  snapshot,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	m.sessions[session.ID] = session
	return session
}

// Get returns a live session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked()
	session, ok := m.sessions[id]
	return session, ok
}

// Close discards a session. Returns false when no such session is live.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Manager) expireLocked() {
	now := m.now()
	for id, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}
