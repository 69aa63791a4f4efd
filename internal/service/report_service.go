package service

import (
	"context"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
)

// ReportService produces aggregate ticket counts.
type ReportService struct {
	tickets repository.TicketRepository
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets}
}

// CountByStatus groups tickets by status. Only statuses actually present in
// the data appear; an empty store yields an empty list.
func (s *ReportService) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.StatusCount{}
	}
	return rows, nil
}

// CountByPriority groups tickets by priority with every enum member present,
// zero-filled, in ordinal order.
func (s *ReportService) CountByPriority(ctx context.Context) ([]repository.PriorityCount, error) {
	rows, err := s.tickets.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}
	return FillPriorityCounts(rows), nil
}

// FillPriorityCounts expands raw priority groups to one row per enum member
// in ordinal order, using count 0 for members absent from the data.
func FillPriorityCounts(raw []repository.PriorityCount) []repository.PriorityCount {
	counts := make(map[domain.TicketPriority]int64, len(raw))
	for _, row := range raw {
		counts[row.Priority] = row.Count
	}

	all := domain.AllPriorities()
	result := make([]repository.PriorityCount, 0, len(all))
	for _, priority := range all {
		result = append(result, repository.PriorityCount{
			Priority: priority,
			Count:    counts[priority],
		})
	}
	return result
}
