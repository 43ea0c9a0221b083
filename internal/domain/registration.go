package domain

import "time"

// Registration asserts that a user holds a reserved spot at an event.
// Its ID doubles as the ticket identifier embedded in the QR payload.
type Registration struct {
	ID           string
	EventID      string
	UserID       string
	UserName     string
	UserEmail    string
	TicketQRData string
	RegisteredAt time.Time
}
