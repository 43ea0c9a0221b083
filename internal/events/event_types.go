package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationCreated   EventType = "registration_created"
	EventRegistrationCancelled EventType = "registration_cancelled"
	EventCounterReconciled     EventType = "counter_reconciled"
	EventCheckInRecorded       EventType = "checkin_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EventID   string      `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RegistrationCreatedPayload carries what the confirmation email needs.
type RegistrationCreatedPayload struct {
	RegistrationID string `json:"registration_id"`
	UserName       string `json:"user_name"`
	UserEmail      string `json:"user_email"`
	EventTitle     string `json:"event_title"`
	TicketQRData   string `json:"ticket_qr_data"`
}

// RegistrationCancelledPayload payload.
type RegistrationCancelledPayload struct {
	RegistrationID string `json:"registration_id"`
	UserEmail      string `json:"user_email"`
	EventTitle     string `json:"event_title"`
}

// CounterReconciledPayload payload.
type CounterReconciledPayload struct {
	PreviousCount  int `json:"previous_count"`
	CorrectedCount int `json:"corrected_count"`
}

// CheckInRecordedPayload payload.
type CheckInRecordedPayload struct {
	SessionID string `json:"session_id"`
	TicketID  string `json:"ticket_id"`
	Result    string `json:"result"`
}
