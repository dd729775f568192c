package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/api/dto"
	"github.com/spec-kit/ticket-tracker/internal/auth"
	"github.com/spec-kit/ticket-tracker/internal/domain"
	"github.com/spec-kit/ticket-tracker/internal/service"
	apperrors "github.com/spec-kit/ticket-tracker/pkg/util"
)

// AssignmentsHandler manages assignment endpoints.
type AssignmentsHandler struct {
	service *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignmentService *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{service: assignmentService}
}

// AssignTicket POST /tickets/:id/assignments.
func (h *AssignmentsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID <= 0 {
		return apperrors.NewValidationError("assignee_id required", nil)
	}

	assignment, err := h.service.AssignTicket(c.UserContext(), principal.User.ID, ticketID, req.AssigneeID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": assignmentResponse(assignment)})
}

// ListByTicket GET /tickets/:id/assignments.
func (h *AssignmentsHandler) ListByTicket(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	rows, err := h.service.ListByTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.AssignmentResponse, 0, len(rows))
	for i := range rows {
		items = append(items, assignmentResponse(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus PATCH /assignments/:id/status.
func (h *AssignmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	assignmentID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.UpdateAssignmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	assignment, err := h.service.UpdateStatus(c.UserContext(), principal.User.ID, assignmentID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponse(assignment)})
}

func assignmentResponse(assignment *domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:         assignment.ID,
		TicketID:   assignment.TicketID,
		AssigneeID: assignment.AssigneeID,
		AssignerID: assignment.AssignerID,
		Status:     assignment.Status,
		CreatedAt:  assignment.CreatedAt,
		UpdatedAt:  assignment.UpdatedAt,
	}
}
