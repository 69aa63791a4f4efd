package dto

import "time"

// CreateTicketCommentRequest payload.
type CreateTicketCommentRequest struct {
	Author  string `json:"author" validate:"required,notblank,max=80"`
	Message string `json:"message" validate:"required,notblank,max=500"`
}

// UpdateTicketCommentRequest payload. Only the message is mutable; author
// and ticket association are fixed at creation.
type UpdateTicketCommentRequest struct {
	Message string `json:"message" validate:"required,notblank,max=500"`
}

// TicketCommentResponse is the outward comment shape.
type TicketCommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticketId"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
