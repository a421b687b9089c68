package domain

// StatsSnapshot holds aggregate counts over a ticket collection.
// It is always derived from the full collection and never patched.
type StatsSnapshot struct {
	Total        int
	Open         int
	InProgress   int
	Closed       int
	HighPriority int
	SLABreached  int
	ByStatus     map[TicketStatus]int
	ByPriority   map[TicketPriority]int
	ByAgent      map[string]int
}
