package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres-backed repositories.
// It mirrors the repository contracts: pgx.ErrNoRows for absent ids, cascade
// delete of comments with the parent, ILIKE-style case-insensitive search.
type memStore struct {
	mu         sync.Mutex
	ticketSeq  int64
	commentSeq int64
	tickets    map[int64]domain.Ticket
	comments   map[int64]domain.TicketComment
}

func newMemStore() *memStore {
	return &memStore{
		tickets:  make(map[int64]domain.Ticket),
		comments: make(map[int64]domain.TicketComment),
	}
}

type memTicketRepo struct{ store *memStore }

type memCommentRepo struct{ store *memStore }

func (s *memStore) ticketRepo() repository.TicketRepository {
	return &memTicketRepo{store: s}
}

func (s *memStore) commentRepo() repository.CommentRepository {
	return &memCommentRepo{store: s}
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.ticketSeq++
	ticket.ID = r.store.ticketSeq
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTicketRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.tickets[id]
	return ok, nil
}

func (r *memTicketRepo) DeleteCascade(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	for commentID, comment := range r.store.comments {
		if comment.TicketID == id {
			delete(r.store.comments, commentID)
		}
	}
	delete(r.store.tickets, id)
	return nil
}

func (r *memTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]domain.Ticket, 0, len(r.store.tickets))
	for _, ticket := range r.store.tickets {
		if !matchesFilter(ticket, filter) {
			continue
		}
		matched = append(matched, ticket)
	}
	sortTickets(matched, filter.Sort)

	total := int64(len(matched))
	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memTicketRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	counts := map[domain.TicketStatus]int64{}
	for _, ticket := range r.store.tickets {
		counts[ticket.Status]++
	}
	var result []repository.StatusCount
	for _, status := range domain.AllStatuses() {
		if counts[status] > 0 {
			result = append(result, repository.StatusCount{Status: status, Count: counts[status]})
		}
	}
	return result, nil
}

func (r *memTicketRepo) CountByPriority(_ context.Context) ([]repository.PriorityCount, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	counts := map[domain.TicketPriority]int64{}
	for _, ticket := range r.store.tickets {
		counts[ticket.Priority]++
	}
	var result []repository.PriorityCount
	for _, priority := range domain.AllPriorities() {
		if counts[priority] > 0 {
			result = append(result, repository.PriorityCount{Priority: priority, Count: counts[priority]})
		}
	}
	return result, nil
}

func matchesFilter(ticket domain.Ticket, filter repository.TicketFilter) bool {
	if search := strings.TrimSpace(filter.Search); search != "" {
		needle := strings.ToLower(search)
		if !containsFold(ticket.Title, needle) &&
			!containsFold(ticket.Description, needle) &&
			!(ticket.Assignee != nil && containsFold(*ticket.Assignee, needle)) &&
			!(ticket.Tags != nil && containsFold(*ticket.Tags, needle)) {
			return false
		}
	}
	if filter.Status != nil && ticket.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && ticket.Priority != *filter.Priority {
		return false
	}
	return true
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

func sortTickets(tickets []domain.Ticket, order domain.TicketSort) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i], tickets[j]
		switch order {
		case domain.SortCreatedAtAsc:
			return a.CreatedAt.Before(b.CreatedAt)
		case domain.SortUpdatedAtAsc:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case domain.SortUpdatedAtDesc:
			return a.UpdatedAt.After(b.UpdatedAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.commentSeq++
	comment.ID = r.store.commentSeq
	comment.CreatedAt = time.Now()
	r.store.comments[comment.ID] = *comment
	return nil
}

func (r *memCommentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketComment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.TicketComment
	for _, comment := range r.store.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memCommentRepo) UpdateMessage(_ context.Context, id int64, message string) (*domain.TicketComment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	comment, ok := r.store.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	comment.Message = message
	r.store.comments[id] = comment
	return &comment, nil
}

func (r *memCommentRepo) Delete(_ context.Context, id int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	comment, ok := r.store.comments[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	delete(r.store.comments, id)
	return comment.TicketID, nil
}
