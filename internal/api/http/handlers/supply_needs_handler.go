package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ngo-case-service/internal/api/dto"
	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/domain"
	"github.com/spec-kit/ngo-case-service/internal/service"
	apperrors "github.com/spec-kit/ngo-case-service/pkg/util/errorutil"
)

// SupplyNeedsHandler manages regular supplies need endpoints.
type SupplyNeedsHandler struct {
	service *service.SupplyNeedService
}

// NewSupplyNeedsHandler constructs handler.
func NewSupplyNeedsHandler(needService *service.SupplyNeedService) *SupplyNeedsHandler {
	return &SupplyNeedsHandler{service: needService}
}

// Get GET /api/regular-supplies-needs/:id.
func (h *SupplyNeedsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	need, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSupplyNeedResponse(need)})
}

// Approve POST /api/regular-supplies-needs/:id/approve.
func (h *SupplyNeedsHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.service.Approve)
}

// Reject POST /api/regular-supplies-needs/:id/reject.
func (h *SupplyNeedsHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.service.Reject)
}

// Collect POST /api/regular-supplies-needs/:id/collect. The body is optional.
func (h *SupplyNeedsHandler) Collect(c *fiber.Ctx) error {
	actorID, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req dto.CollectNeedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	need, err := h.service.Collect(c.UserContext(), actorID, id, req.BatchID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSupplyNeedResponse(need)})
}

// Delete DELETE /api/regular-supplies-needs/:id.
func (h *SupplyNeedsHandler) Delete(c *fiber.Ctx) error {
	actorID, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actorID, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, actorID, id int64) (*domain.SupplyNeed, error)

func (h *SupplyNeedsHandler) transition(c *fiber.Ctx, apply transitionFunc) error {
	actorID, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	need, err := apply(c.UserContext(), actorID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSupplyNeedResponse(need)})
}

func actorAndID(c *fiber.Ctx) (int64, int64, error) {
	actorID, ok := auth.WorkerIDFromContext(c)
	if !ok {
		return 0, 0, apperrors.NewUnauthorized("worker required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return 0, 0, err
	}
	return actorID, id, nil
}
