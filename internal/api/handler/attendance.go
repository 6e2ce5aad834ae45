package handler

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
	"github.com/presenca-labs/presenca/internal/observability"
)

// AttendanceMarker is the slice of the attendance service the attendance
// handlers need.
type AttendanceMarker interface {
	MarkByEmbedding(ctx context.Context, probe []float64) (*domain.ServiceOutcome, error)
	ListForDay(ctx context.Context, day domain.Day) ([]domain.AttendanceEvent, error)
	History(ctx context.Context, id uuid.UUID) ([]domain.AttendanceEvent, error)
	ComputeStats(ctx context.Context, day domain.Day) (*domain.AttendanceStats, error)
	Today() domain.Day
}

// AttendanceHandler handles recognition and attendance queries
type AttendanceHandler struct {
	service AttendanceMarker
	logger  *slog.Logger
}

func NewAttendanceHandler(service AttendanceMarker, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{service: service, logger: logger}
}

// RecognizeRequest carries a probe embedding from the caller's extraction step.
type RecognizeRequest struct {
	Embedding []float64 `json:"embedding"`
}

// EventResponse is the public view of an attendance event.
type EventResponse struct {
	ID          string `json:"id"`
	IdentityID  string `json:"identity_id"`
	ExternalID  string `json:"external_id"`
	DisplayName string `json:"display_name"`
	Day         string `json:"day"`
	RecordedAt  string `json:"recorded_at"`
	Confidence  int    `json:"confidence"`
}

// RecognizeResponse is the tagged outcome of a recognition attempt. Status
// is one of marked, duplicate, not_recognized; duplicate carries the
// original event of the day.
type RecognizeResponse struct {
	Status          string            `json:"status"`
	Identity        *IdentityResponse `json:"identity,omitempty"`
	Event           *EventResponse    `json:"event,omitempty"`
	Confidence      int               `json:"confidence,omitempty"`
	NearestDistance *float64          `json:"nearest_distance,omitempty"`
}

func toEventResponse(ev *domain.AttendanceEvent) *EventResponse {
	return &EventResponse{
		ID:          ev.ID.String(),
		IdentityID:  ev.IdentityID.String(),
		ExternalID:  ev.ExternalID,
		DisplayName: ev.DisplayName,
		Day:         ev.Day.String(),
		RecordedAt:  ev.RecordedAt.UTC().Format(time.RFC3339),
		Confidence:  ev.Confidence,
	}
}

// Recognize POST /v1/attendance/recognize - classify a probe and mark
// attendance for today. Duplicate and not_recognized are normal responses,
// not errors.
func (h *AttendanceHandler) Recognize(c *fiber.Ctx) error {
	var req RecognizeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	start := time.Now()
	outcome, err := h.service.MarkByEmbedding(c.Context(), req.Embedding)
	if err != nil {
		return err
	}
	observability.MatchDuration.Observe(time.Since(start).Seconds())
	observability.RecognitionAttempts.WithLabelValues(string(outcome.Kind)).Inc()

	resp := RecognizeResponse{Status: string(outcome.Kind)}
	status := fiber.StatusOK

	switch outcome.Kind {
	case domain.OutcomeMarked:
		status = fiber.StatusCreated
		identity := toIdentityResponse(outcome.Identity)
		resp.Identity = &identity
		resp.Event = toEventResponse(outcome.Event)
		resp.Confidence = outcome.Confidence
	case domain.OutcomeDuplicate:
		identity := toIdentityResponse(outcome.Identity)
		resp.Identity = &identity
		resp.Event = toEventResponse(outcome.Event)
		resp.Confidence = outcome.Confidence
	case domain.OutcomeNotRecognized:
		if !math.IsInf(outcome.NearestDistance, 1) {
			d := outcome.NearestDistance
			resp.NearestDistance = &d
		}
	}

	return c.Status(status).JSON(resp)
}

// Today GET /v1/attendance/today - today's events in the facility time zone
func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	return h.listDay(c, h.service.Today())
}

// ByDay GET /v1/attendance/day/:day - events for an explicit day
func (h *AttendanceHandler) ByDay(c *fiber.Ctx) error {
	day, err := domain.ParseDay(c.Params("day"))
	if err != nil {
		return err
	}
	return h.listDay(c, day)
}

func (h *AttendanceHandler) listDay(c *fiber.Ctx, day domain.Day) error {
	events, err := h.service.ListForDay(c.Context(), day)
	if err != nil {
		return err
	}

	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *toEventResponse(&events[i]))
	}

	return c.JSON(out)
}

// History GET /v1/attendance/history/:id - an identity's events, newest
// first. Still served after the identity is deleted.
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	events, err := h.service.History(c.Context(), id)
	if err != nil {
		return err
	}

	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *toEventResponse(&events[i]))
	}

	return c.JSON(out)
}

// Stats GET /v1/attendance/stats - today's summary
func (h *AttendanceHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.ComputeStats(c.Context(), h.service.Today())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}
