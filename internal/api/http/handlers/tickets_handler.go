package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/api/dto"
	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/service"
	"github.com/spec-kit/helpdesk-api/internal/validation"
	"github.com/spec-kit/helpdesk-api/pkg/apperrors"
)

// TicketsHandler exposes ticket and comment endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	validate *validation.Validator
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, validate *validation.Validator) *TicketsHandler {
	return &TicketsHandler{service: ticketService, validate: validate}
}

// List GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	query, fields := parseListQuery(c)
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	if err := h.validate.Check(query); err != nil {
		return err
	}

	listQuery := service.TicketListQuery{
		Search:   query.Search,
		Sort:     query.Sort,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := domain.TicketStatus(query.Status)
		listQuery.Status = &status
	}
	if query.Priority != "" {
		priority := domain.TicketPriority(query.Priority)
		listQuery.Priority = &priority
	}

	page, err := h.service.List(c.UserContext(), listQuery)
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ticketResponse(&page.Items[i]))
	}
	return c.JSON(dto.PagedTicketsResponse{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
	})
}

// GetByID GET /api/tickets/:id.
func (h *TicketsHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// Create POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := h.validate.Check(req); err != nil {
		return err
	}

	ticket, err := h.service.Create(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticketResponse(ticket))
}

// Update PUT /api/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := h.validate.Check(req); err != nil {
		return err
	}

	if _, err := h.service.Update(c.UserContext(), id, service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Tags:        req.Tags,
	}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /api/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetComments GET /api/tickets/:id/comments.
func (h *TicketsHandler) GetComments(c *fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.service.GetComments(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketCommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(items)
}

// AddComment POST /api/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateTicketCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := h.validate.Check(req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.UserContext(), ticketID, req.Author, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(commentResponse(comment))
}

// UpdateComment PUT /api/tickets/comments/:commentId.
func (h *TicketsHandler) UpdateComment(c *fiber.Ctx) error {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	if err := h.validate.Check(req); err != nil {
		return err
	}

	if _, err := h.service.UpdateComment(c.UserContext(), commentID, req.Message); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteComment DELETE /api/tickets/comments/:commentId.
func (h *TicketsHandler) DeleteComment(c *fiber.Ctx) error {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.UserContext(), commentID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseListQuery(c *fiber.Ctx) (dto.ListTicketsQuery, map[string][]string) {
	fields := map[string][]string{}
	query := dto.ListTicketsQuery{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Sort:     c.Query("sort"),
		Page:     queryInt(c, "page", service.DefaultPage, "Page", fields),
		PageSize: queryInt(c, "pageSize", service.DefaultPageSize, "PageSize", fields),
	}
	return query, fields
}

func queryInt(c *fiber.Ctx, key string, def int, display string, fields map[string][]string) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = append(fields[key], display+" must be an integer.")
		return def
	}
	return parsed
}

func pathID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil {
		return 0, apperrors.Validation(map[string][]string{
			param: {"Id must be an integer."},
		})
	}
	return id, nil
}

func invalidBody() error {
	return apperrors.Validation(map[string][]string{
		"body": {"Request body is not valid JSON."},
	})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Assignee:    ticket.Assignee,
		Tags:        ticket.Tags,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func commentResponse(comment *domain.TicketComment) dto.TicketCommentResponse {
	return dto.TicketCommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		Author:    comment.Author,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	}
}
