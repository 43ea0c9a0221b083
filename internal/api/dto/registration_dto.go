package dto

import "time"

// RegistrationResponse is the public registration / ticket shape.
type RegistrationResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	TicketQRData string    `json:"ticket_qr_data"`
	RegisteredAt time.Time `json:"registered_at"`
}
