package domain

import "strings"

// TicketSort identifies a recognized listing order.
type TicketSort string

const (
	SortCreatedAtAsc  TicketSort = "createdAtAsc"
	SortCreatedAtDesc TicketSort = "createdAtDesc"
	SortUpdatedAtAsc  TicketSort = "updatedAtAsc"
	SortUpdatedAtDesc TicketSort = "updatedAtDesc"
)

// DefaultTicketSort is the contractual fallback order.
const DefaultTicketSort = SortCreatedAtDesc

// ParseTicketSort resolves a raw sort value case-insensitively. It reports
// false for anything outside the four recognized keys.
func ParseTicketSort(raw string) (TicketSort, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "createdatasc":
		return SortCreatedAtAsc, true
	case "createdatdesc":
		return SortCreatedAtDesc, true
	case "updatedatasc":
		return SortUpdatedAtAsc, true
	case "updatedatdesc":
		return SortUpdatedAtDesc, true
	default:
		return "", false
	}
}

// ResolveTicketSort maps a raw sort value to an order, falling back to
// DefaultTicketSort for unknown or empty input. The validator rejects unknown
// explicit values at the boundary; this fallback is defensive only, so the
// engine stays well-defined if called directly.
func ResolveTicketSort(raw string) TicketSort {
	if sort, ok := ParseTicketSort(raw); ok {
		return sort
	}
	return DefaultTicketSort
}
