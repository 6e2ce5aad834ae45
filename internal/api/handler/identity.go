package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
	"github.com/presenca-labs/presenca/internal/observability"
	"github.com/presenca-labs/presenca/internal/service"
)

// IdentityService is the slice of the attendance service the identity
// handlers need.
type IdentityService interface {
	Enroll(ctx context.Context, input service.EnrollmentInput) (*domain.Identity, error)
	Identity(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	Identities(ctx context.Context) ([]*domain.Identity, error)
	DeleteIdentity(ctx context.Context, id uuid.UUID) error
	Registered(ctx context.Context) (int, error)
}

// IdentityHandler handles enrollment CRUD
type IdentityHandler struct {
	service IdentityService
	logger  *slog.Logger
}

func NewIdentityHandler(service IdentityService, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{service: service, logger: logger}
}

// EnrollRequest is the enrollment body. The embedding is produced by the
// caller's extraction step; this service never sees images.
type EnrollRequest struct {
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	Embedding   []float64 `json:"embedding"`
}

// IdentityResponse is the public view of an identity. The embedding itself
// is never returned.
type IdentityResponse struct {
	ID           string `json:"id"`
	ExternalID   string `json:"external_id"`
	DisplayName  string `json:"display_name"`
	EmbeddingDim int    `json:"embedding_dim"`
	CreatedAt    string `json:"created_at"`
}

func toIdentityResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:           identity.ID.String(),
		ExternalID:   identity.ExternalID,
		DisplayName:  identity.DisplayName,
		EmbeddingDim: len(identity.Embedding),
		CreatedAt:    identity.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Enroll POST /v1/identities - enroll a new identity
func (h *IdentityHandler) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	identity, err := h.service.Enroll(c.Context(), service.EnrollmentInput{
		ExternalID:  req.ExternalID,
		DisplayName: req.DisplayName,
		Embedding:   req.Embedding,
	})
	if err != nil {
		return err
	}

	h.updateEnrolledGauge(c.Context())

	return c.Status(fiber.StatusCreated).JSON(toIdentityResponse(identity))
}

// List GET /v1/identities - list enrolled identities
func (h *IdentityHandler) List(c *fiber.Ctx) error {
	identities, err := h.service.Identities(c.Context())
	if err != nil {
		return err
	}

	out := make([]IdentityResponse, 0, len(identities))
	for _, identity := range identities {
		out = append(out, toIdentityResponse(identity))
	}

	return c.JSON(out)
}

// Get GET /v1/identities/:id - fetch one identity
func (h *IdentityHandler) Get(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	identity, err := h.service.Identity(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(toIdentityResponse(identity))
}

// Delete DELETE /v1/identities/:id - remove an identity. Attendance history
// is retained.
func (h *IdentityHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIdentityID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteIdentity(c.Context(), id); err != nil {
		return err
	}

	h.updateEnrolledGauge(c.Context())

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *IdentityHandler) updateEnrolledGauge(ctx context.Context) {
	n, err := h.service.Registered(ctx)
	if err != nil {
		h.logger.Warn("failed to read enrolled count", slog.Any("error", err))
		return
	}
	observability.EnrolledIdentities.Set(float64(n))
}

func parseIdentityID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrValidationFailed.WithError(errors.New("id must be a UUID"))
	}
	return id, nil
}
