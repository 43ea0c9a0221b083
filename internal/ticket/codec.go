// Package ticket implements the scannable ticket code format and its QR
// rendering. A ticket code is a pipe-delimited string carrying the ticket
// identifier, attendee name and event title.
package ticket

import "strings"

// Prefix is the literal first token of every valid ticket code.
const Prefix = "TICKET"

const delimiter = "|"

// Identity is the decoded payload of a ticket code.
type Identity struct {
	TicketID   string
	UserName   string
	EventTitle string
}

// Encode builds the wire form TICKET|<id>|<name>|<title>.
func Encode(ticketID, userName, eventTitle string) string {
	return strings.Join([]string{Prefix, ticketID, userName, eventTitle}, delimiter)
}

// Decode parses a raw scan back into its identity fields. It returns nil
// when the prefix is wrong or fewer than four tokens are present. Tokens
// beyond the third are rejoined so event titles containing the delimiter
// survive the round trip.
func Decode(raw string) *Identity {
	parts := strings.Split(raw, delimiter)
	if len(parts) < 4 || parts[0] != Prefix {
		return nil
	}
	return &Identity{
		TicketID:   parts[1],
		UserName:   parts[2],
		EventTitle: strings.Join(parts[3:], delimiter),
	}
}
