package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ngo-case-service/internal/api/dto"
	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/permission"
	"github.com/spec-kit/ngo-case-service/internal/service"
	apperrors "github.com/spec-kit/ngo-case-service/pkg/util/errorutil"
)

// CasesHandler serves case reads and permission checks.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{service: caseService}
}

// GetCase GET /api/cases/:caseId.
func (h *CasesHandler) GetCase(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "caseId")
	if err != nil {
		return err
	}
	found, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCaseResponse(found)})
}

// Accessible GET /api/cases/accessible.
func (h *CasesHandler) Accessible(c *fiber.Ctx) error {
	workerID, ok := auth.WorkerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("worker required")
	}
	ids := h.service.AccessibleIDs(c.UserContext(), workerID)
	return c.JSON(fiber.Map{"data": dto.AccessibleCasesResponse{CaseIDs: ids}})
}

// CheckPermission GET /api/permissions/check?action=&caseId=.
func (h *CasesHandler) CheckPermission(c *fiber.Ctx) error {
	workerID, ok := auth.WorkerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("worker required")
	}

	raw := strings.TrimSpace(c.Query("action"))
	if raw == "" {
		return apperrors.NewValidationError("action required", nil)
	}
	action, known := permission.ParseAction(raw)
	if !known {
		// Evaluated anyway so the reason comes from the evaluator.
		action = permission.Action(strings.ToLower(raw))
	}

	var caseID *int64
	if rawCase := c.Query("caseId"); rawCase != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(rawCase), 10, 64)
		if err != nil {
			return apperrors.NewValidationError("caseId must be an integer", map[string]any{"caseId": rawCase})
		}
		caseID = &id
	}

	decision := h.service.Check(c.UserContext(), workerID, action, caseID)
	resp := dto.PermissionCheckResponse{
		Action:  raw,
		CaseID:  caseID,
		Allowed: decision.Allowed(),
	}
	if !decision.Allowed() {
		resp.Reason = decision.Reason()
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name+" must be an integer", map[string]any{name: raw})
	}
	return id, nil
}
