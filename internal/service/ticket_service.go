package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/internal/repository"
	"github.com/spec-kit/helpdesk-api/pkg/apperrors"
)

// TicketService coordinates ticket and comment workflows: creation defaults,
// full-replace updates, cascade deletes, thread access and listing.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for ticket service construction.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. Status is not
// accepted from the caller; new tickets always start OPEN.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Assignee    *string
	Tags        *string
}

// TicketUpdateInput describes the full-replace update payload. Every field
// is overwritten on the stored ticket.
type TicketUpdateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
	Priority    domain.TicketPriority
	Assignee    *string
	Tags        *string
}

// TicketListQuery describes listing parameters before normalization.
type TicketListQuery struct {
	Search   string
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Sort     string
	Page     int
	PageSize int
}

// TicketPage is one result page with its position metadata. Page and
// PageSize are the effective values after normalization; TotalCount is the
// pre-pagination match count.
type TicketPage struct {
	Items      []domain.Ticket
	Page       int
	PageSize   int
	TotalCount int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// List returns a filtered, sorted page of tickets. Read-only: no entity is
// mutated. Blank search disables the search predicate entirely; filters
// apply only when set. Unknown sort values fall back to createdAtDesc
// (defensive; the boundary validator rejects them first).
func (s *TicketService) List(ctx context.Context, query TicketListQuery) (*TicketPage, error) {
	page, pageSize := NormalizePaging(query.Page, query.PageSize)

	filter := repository.TicketFilter{
		Search:   query.Search,
		Status:   query.Status,
		Priority: query.Priority,
		Sort:     domain.ResolveTicketSort(query.Sort),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	items, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Ticket{}
	}
	return &TicketPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// GetByID fetches one ticket.
func (s *TicketService) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketError(err, id)
	}
	return ticket, nil
}

// Create persists a new ticket with server-assigned defaults and returns it
// with its assigned id and timestamps.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Assignee:    input.Assignee,
		Tags:        input.Tags,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Update overwrites every mutable field of the ticket and refreshes
// updatedAt. Full-replace semantics: the caller resends all fields.
func (s *TicketService) Update(ctx context.Context, id int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketError(err, id)
	}

	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.Status = input.Status
	ticket.Priority = input.Priority
	ticket.Assignee = input.Assignee
	ticket.Tags = input.Tags

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, ticketError(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Delete removes the ticket and all of its comments in one transaction.
func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.DeleteCascade(ctx, id); err != nil {
		return ticketError(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
	})
	return nil
}

// GetComments returns the ticket's comment thread, newest first.
func (s *TicketService) GetComments(ctx context.Context, ticketID int64) ([]domain.TicketComment, error) {
	exists, err := s.tickets.Exists(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("Ticket", ticketID)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.TicketComment{}
	}
	return comments, nil
}

// AddComment attaches a new comment to an existing ticket.
func (s *TicketService) AddComment(ctx context.Context, ticketID int64, author, message string) (*domain.TicketComment, error) {
	exists, err := s.tickets.Exists(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("Ticket", ticketID)
	}

	comment := &domain.TicketComment{
		TicketID: ticketID,
		Author:   strings.TrimSpace(author),
		Message:  strings.TrimSpace(message),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticketID,
		Payload: events.CommentPayload{
			CommentID: comment.ID,
			Author:    comment.Author,
		},
	})
	return comment, nil
}

// UpdateComment overwrites the comment message. Author and ticket
// association are immutable post-creation.
func (s *TicketService) UpdateComment(ctx context.Context, commentID int64, message string) (*domain.TicketComment, error) {
	comment, err := s.comments.UpdateMessage(ctx, commentID, strings.TrimSpace(message))
	if err != nil {
		return nil, commentError(err, commentID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentUpdated,
		TicketID: comment.TicketID,
		Payload: events.CommentPayload{
			CommentID: comment.ID,
		},
	})
	return comment, nil
}

// DeleteComment removes a single comment.
func (s *TicketService) DeleteComment(ctx context.Context, commentID int64) error {
	ticketID, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return commentError(err, commentID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentDeleted,
		TicketID: ticketID,
		Payload: events.CommentPayload{
			CommentID: commentID,
		},
	})
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func ticketError(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("Ticket", id)
	}
	return err
}

func commentError(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("Comment", id)
	}
	return err
}
