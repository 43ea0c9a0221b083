package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/dto"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/service"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// RegistrationsHandler manages ticket endpoints.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrations *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrations}
}

// Register POST /events/:id/registrations.
func (h *RegistrationsHandler) Register(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	reg, err := h.registrations.Register(c.Context(), c.Params("id"), principal.User)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": registrationResponse(reg)})
}

// Unregister DELETE /events/:id/registrations.
func (h *RegistrationsHandler) Unregister(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.registrations.Unregister(c.Context(), c.Params("id"), principal.User); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListMine GET /me/registrations.
func (h *RegistrationsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	regs, err := h.registrations.ListForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": registrationResponses(regs)})
}

// ListForEvent GET /events/:id/registrations.
func (h *RegistrationsHandler) ListForEvent(c *fiber.Ctx) error {
	regs, err := h.registrations.ListForEvent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": registrationResponses(regs)})
}

// TicketQR GET /registrations/:id/qr.
func (h *RegistrationsHandler) TicketQR(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	size := parseInt(c.Query("size"), 0)
	png, err := h.registrations.TicketQR(c.Context(), c.Params("id"), principal.User, size)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func registrationResponse(reg *domain.Registration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:           reg.ID,
		EventID:      reg.EventID,
		UserName:     reg.UserName,
		UserEmail:    reg.UserEmail,
		TicketQRData: reg.TicketQRData,
		RegisteredAt: reg.RegisteredAt,
	}
}

func registrationResponses(regs []domain.Registration) []dto.RegistrationResponse {
	items := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, registrationResponse(&regs[i]))
	}
	return items
}
