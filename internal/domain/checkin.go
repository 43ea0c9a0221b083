package domain

import "time"

// ScanResult classifies a single check-in scan.
type ScanResult string

const (
	ScanResultSuccess   ScanResult = "success"
	ScanResultDuplicate ScanResult = "duplicate"
	ScanResultError     ScanResult = "error"
)

// CheckInRecord captures one processed scan within a live check-in session.
// Records are session-local bookkeeping and are not part of the ledger.
type CheckInRecord struct {
	TicketID  string
	UserName  string
	UserEmail string
	Result    ScanResult
	ScannedAt time.Time
}

// CheckInStats accumulates per-session scan counters.
type CheckInStats struct {
	Successful int
	Duplicates int
	Errors     int
}

// Total returns the number of scans processed in the session.
func (s CheckInStats) Total() int {
	return s.Successful + s.Duplicates + s.Errors
}
