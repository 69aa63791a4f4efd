package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-api/internal/domain"
)

// CreateTicketRequest payload. Status is intentionally absent: new tickets
// always start OPEN and a client-supplied status is ignored.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required,notblank,max=150"`
	Description string                `json:"description" validate:"required,notblank"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,ticketpriority"`
	Assignee    *string               `json:"assignee" validate:"omitempty,max=100"`
	Tags        *string               `json:"tags" validate:"omitempty,max=250"`
}

// UpdateTicketRequest payload. Full-replace semantics: every field is
// overwritten, so the caller must resend all of them.
type UpdateTicketRequest struct {
	Title       string                `json:"title" validate:"required,notblank,max=150"`
	Description string                `json:"description" validate:"required,notblank"`
	Status      domain.TicketStatus   `json:"status" validate:"required,ticketstatus"`
	Priority    domain.TicketPriority `json:"priority" validate:"required,ticketpriority"`
	Assignee    *string               `json:"assignee" validate:"omitempty,max=100"`
	Tags        *string               `json:"tags" validate:"omitempty,max=250"`
}

// ListTicketsQuery captures listing parameters as parsed from the query
// string. Page and PageSize carry their defaults when absent; explicit
// out-of-range values are a validation failure.
type ListTicketsQuery struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,ticketstatus"`
	Priority string `json:"priority" validate:"omitempty,ticketpriority"`
	Sort     string `json:"sort" validate:"omitempty,sortkey"`
	Page     int    `json:"page" validate:"gt=0"`
	PageSize int    `json:"pageSize" validate:"gte=1,lte=100"`
}

// TicketResponse is the outward ticket shape.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Assignee    *string               `json:"assignee"`
	Tags        *string               `json:"tags"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// PagedTicketsResponse is a page of tickets plus its position metadata.
type PagedTicketsResponse struct {
	Items      []TicketResponse `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalCount int64            `json:"totalCount"`
}

// StatusReportRow is one status group with its ticket count.
type StatusReportRow struct {
	Status domain.TicketStatus `json:"status"`
	Count  int64               `json:"count"`
}

// PriorityReportRow is one priority member with its ticket count.
type PriorityReportRow struct {
	Priority domain.TicketPriority `json:"priority"`
	Count    int64                 `json:"count"`
}
