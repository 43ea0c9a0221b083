package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/dto"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/service"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// EventsHandler manages event administration and read endpoints.
type EventsHandler struct {
	events        *service.EventService
	registrations *service.RegistrationService
	analytics     *service.AnalyticsService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events *service.EventService, registrations *service.RegistrationService, analytics *service.AnalyticsService) *EventsHandler {
	return &EventsHandler{events: events, registrations: registrations, analytics: analytics}
}

// CreateEvent POST /events.
func (h *EventsHandler) CreateEvent(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	event, err := h.events.CreateEvent(c.Context(), service.EventCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": eventResponse(event)})
}

// ListEvents GET /events.
func (h *EventsHandler) ListEvents(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	events, err := h.events.ListEvents(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, eventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetEvent GET /events/:id.
func (h *EventsHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.events.GetEvent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// CloseEvent PATCH /events/:id/close.
func (h *EventsHandler) CloseEvent(c *fiber.Ctx) error {
	return h.setClosed(c, true)
}

// ReopenEvent PATCH /events/:id/reopen.
func (h *EventsHandler) ReopenEvent(c *fiber.Ctx) error {
	return h.setClosed(c, false)
}

func (h *EventsHandler) setClosed(c *fiber.Ctx, closed bool) error {
	event, err := h.events.SetClosed(c.Context(), c.Params("id"), closed)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// GetMetrics GET /events/:id/metrics.
func (h *EventsHandler) GetMetrics(c *fiber.Ctx) error {
	metrics, alert, err := h.analytics.EventMetrics(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EventMetricsResponse{
		CapacityMetrics: metrics,
		AlertMessage:    alert,
	}})
}

// GetForecast GET /events/:id/forecast?days=N.
func (h *EventsHandler) GetForecast(c *fiber.Ctx) error {
	days := parseInt(c.Query("days"), 7)
	projected, err := h.analytics.Forecast(c.Context(), c.Params("id"), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ForecastResponse{
		EventID:   c.Params("id"),
		DaysAhead: days,
		Projected: projected,
	}})
}

// Reconcile POST /events/:id/reconcile.
func (h *EventsHandler) Reconcile(c *fiber.Ctx) error {
	corrected, err := h.registrations.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReconcileResponse{
		EventID:        c.Params("id"),
		CorrectedCount: corrected,
	}})
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		Location:       event.Location,
		StartsAt:       event.StartsAt,
		Capacity:       event.Capacity,
		Registered:     event.Registered,
		SpotsRemaining: event.SpotsRemaining(),
		IsClosed:       event.IsClosed,
		IsFull:         event.IsFull(),
		CreatedAt:      event.CreatedAt,
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
