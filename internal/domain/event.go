package domain

import "time"

// Event is the aggregate for a bookable club event. Registered is a
// denormalized cache of the registration count for the event.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
	Registered  int
	IsClosed    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CapacityEnforced reports whether the event carries a capacity limit.
// Capacity zero means unlimited.
func (e *Event) CapacityEnforced() bool {
	return e.Capacity > 0
}

// SpotsRemaining returns the number of open slots, floored at zero.
func (e *Event) SpotsRemaining() int {
	if !e.CapacityEnforced() {
		return 0
	}
	remaining := e.Capacity - e.Registered
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull reports whether the event has no slots left.
func (e *Event) IsFull() bool {
	return e.CapacityEnforced() && e.Registered >= e.Capacity
}
