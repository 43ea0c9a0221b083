package dto

import (
	"time"

	"github.com/spec-kit/event-registration-service/internal/domain"
)

// ScanRequest carries one raw ticket scan.
type ScanRequest struct {
	Code string `json:"code"`
}

// ScanRecordResponse is one classified scan.
type ScanRecordResponse struct {
	TicketID  string            `json:"ticket_id,omitempty"`
	UserName  string            `json:"user_name"`
	UserEmail string            `json:"user_email,omitempty"`
	Result    domain.ScanResult `json:"result"`
	ScannedAt time.Time         `json:"scanned_at"`
}

// SessionResponse is the live session state.
type SessionResponse struct {
	ID           string               `json:"id"`
	EventID      string               `json:"event_id"`
	SnapshotSize int                  `json:"snapshot_size"`
	CreatedAt    time.Time            `json:"created_at"`
	ExpiresAt    time.Time            `json:"expires_at"`
	Successful   int                  `json:"successful"`
	Duplicates   int                  `json:"duplicates"`
	Errors       int                  `json:"errors"`
	Records      []ScanRecordResponse `json:"records,omitempty"`
}
