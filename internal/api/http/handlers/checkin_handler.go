package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/dto"
	"github.com/spec-kit/event-registration-service/internal/checkin"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/service"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// CheckInHandler manages door check-in session endpoints.
type CheckInHandler struct {
	checkins *service.CheckInService
}

// NewCheckInHandler constructs handler.
func NewCheckInHandler(checkins *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkins: checkins}
}

// OpenSession POST /events/:id/checkin/sessions.
func (h *CheckInHandler) OpenSession(c *fiber.Ctx) error {
	session, err := h.checkins.OpenSession(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session, false)})
}

// GetSession GET /checkin/sessions/:id.
func (h *CheckInHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.checkins.Session(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session, true)})
}

// Scan POST /checkin/sessions/:id/scans.
func (h *CheckInHandler) Scan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Code) == "" {
		return apperrors.NewValidationError("code required", nil)
	}
	record, err := h.checkins.Scan(c.Context(), c.Params("id"), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": scanRecordResponse(record)})
}

// ResetSession POST /checkin/sessions/:id/reset.
func (h *CheckInHandler) ResetSession(c *fiber.Ctx) error {
	if err := h.checkins.ResetSession(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CloseSession DELETE /checkin/sessions/:id.
func (h *CheckInHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.checkins.CloseSession(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func sessionResponse(session *checkin.Session, includeRecords bool) dto.SessionResponse {
	stats := session.Stats()
	resp := dto.SessionResponse{
		ID:           session.ID,
		EventID:      session.EventID,
		SnapshotSize: session.SnapshotSize(),
		CreatedAt:    session.CreatedAt,
		ExpiresAt:    session.ExpiresAt,
		Successful:   stats.Successful,
		Duplicates:   stats.Duplicates,
		Errors:       stats.Errors,
	}
	if includeRecords {
		records := session.Records()
		resp.Records = make([]dto.ScanRecordResponse, 0, len(records))
		for _, record := range records {
			resp.Records = append(resp.Records, scanRecordResponse(record))
		}
	}
	return resp
}

func scanRecordResponse(record domain.CheckInRecord) dto.ScanRecordResponse {
	return dto.ScanRecordResponse{
		TicketID:  record.TicketID,
		UserName:  record.UserName,
		UserEmail: record.UserEmail,
		Result:    record.Result,
		ScannedAt: record.ScannedAt,
	}
}
