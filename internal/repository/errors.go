package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is fully booked")

// ErrEventClosed is returned when an event no longer accepts registrations.
var ErrEventClosed = errors.New("event is closed for registration")

// ErrDuplicateRegistration is returned when the same user registers twice
// for one event.
var ErrDuplicateRegistration = errors.New("user already registered for this event")
