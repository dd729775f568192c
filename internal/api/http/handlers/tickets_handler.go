package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/service"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Name:            req.Name,
		Description:     req.Description,
		FileDescription: req.FileDescription,
	}
	id, err := h.service.CreateTicket(c.UserContext(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		Name:            req.Name,
		Description:     req.Description,
		FileDescription: req.FileDescription,
	}
	if err := h.service.UpdateTicket(c.UserContext(), principal.User.ID, id, input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// DeleteTickets DELETE /tickets.
func (h *TicketsHandler) DeleteTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.DeleteTicketsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.service.DeleteTickets(c.UserContext(), principal.User.ID, req.IDs); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": req.IDs}})
}

// CheckTicketsExist POST /tickets/exists.
func (h *TicketsHandler) CheckTicketsExist(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CheckTicketsExistRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	exists, err := h.service.TicketsExist(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"exists": exists}})
}

// ListCreated GET /tickets/created.
func (h *TicketsHandler) ListCreated(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	details, err := h.service.ListCreated(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.AssignedTicketDetailResponse, 0, len(details))
	for i := range details {
		items = append(items, assignedTicketDetailResponse(&details[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAssignedToMe GET /tickets/assigned-to-me.
func (h *TicketsHandler) ListAssignedToMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	rows, err := h.service.ListAssignedToMe(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ReceivedAssignmentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ReceivedAssignmentResponse{
			AssignmentID:    row.AssignmentID,
			TicketID:        row.TicketID,
			Name:            row.Name,
			Description:     row.Description,
			FileDescription: row.FileDescription,
			AssignerID:      row.AssignerID,
			AssignerName:    row.AssignerName,
			Status:          row.Status,
			AssignedAt:      row.AssignedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAssignedByMe GET /tickets/assigned-by-me.
func (h *TicketsHandler) ListAssignedByMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	rows, err := h.service.ListAssignedByMe(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.IssuedAssignmentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.IssuedAssignmentResponse{
			AssignmentID:    row.AssignmentID,
			TicketID:        row.TicketID,
			Name:            row.Name,
			Description:     row.Description,
			FileDescription: row.FileDescription,
			AssigneeID:      row.AssigneeID,
			AssigneeName:    row.AssigneeName,
			Status:          row.Status,
			CreatedAt:       row.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// SearchTickets GET /tickets/search?name=.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	rows, err := h.service.Search(c.UserContext(), principal.User.ID, c.Query("name"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSearchResultResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.TicketSearchResultResponse{
			AssignedTicketDetailResponse: assignedTicketDetailResponse(&rows[i].AssignedTicketDetail),
			AssigneeNames:                rows[i].AssigneeNames,
			AssignerNames:                rows[i].AssignerNames,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": raw})
	}
	return id, nil
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              ticket.ID,
		Name:            ticket.Name,
		Description:     ticket.Description,
		FileDescription: ticket.FileDescription,
		CreatorID:       ticket.CreatorID,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

func assignedTicketDetailResponse(detail *domain.AssignedTicketDetail) dto.AssignedTicketDetailResponse {
	return dto.AssignedTicketDetailResponse{
		ID:              detail.ID,
		Name:            detail.Name,
		Description:     detail.Description,
		FileDescription: detail.FileDescription,
		CreatorID:       detail.CreatorID,
		AssigneeID:      detail.AssigneeID,
		AssigneeName:    detail.AssigneeName,
		AssignerID:      detail.AssignerID,
		AssignerName:    detail.AssignerName,
		FirstAssignID:   detail.FirstAssignID,
		FirstAssignName: detail.FirstAssignName,
		Status:          detail.Status,
		AssignedAt:      detail.AssignedAt,
	}
}
