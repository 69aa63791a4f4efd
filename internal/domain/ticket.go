package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels. Ordinal order is the order of
// AllPriorities; the priority report relies on it.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// AllStatuses lists every status member.
func AllStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusOpen,
		TicketStatusInProgress,
		TicketStatusResolved,
		TicketStatusClosed,
	}
}

// AllPriorities lists every priority member in ordinal order.
func AllPriorities() []TicketPriority {
	return []TicketPriority{
		TicketPriorityLow,
		TicketPriorityMedium,
		TicketPriorityHigh,
		TicketPriorityUrgent,
	}
}

// ValidStatus reports whether s is a known status member.
func ValidStatus(s TicketStatus) bool {
	for _, candidate := range AllStatuses() {
		if candidate == s {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority member.
func ValidPriority(p TicketPriority) bool {
	for _, candidate := range AllPriorities() {
		if candidate == p {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Assignee    *string
	Tags        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketComment is an authored note attached to exactly one ticket. Its
// lifetime is bound to the parent: deleting the ticket removes its comments.
type TicketComment struct {
	ID        int64
	TicketID  int64
	Author    string
	Message   string
	CreatedAt time.Time
}
