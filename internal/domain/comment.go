package domain

import "time"

// Comment is an entry in a ticket's discussion log.
type Comment struct {
	ID        string
	TicketID  string
	Author    string
	Content   string
	Timestamp time.Time
}
