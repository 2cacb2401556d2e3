package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ngo-case-service/internal/api/dto"
	"github.com/spec-kit/ngo-case-service/internal/auth"
	"github.com/spec-kit/ngo-case-service/internal/service"
	apperrors "github.com/spec-kit/ngo-case-service/pkg/util/errorutil"
)

// AuthHandler exposes login and worker endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return apperrors.NewUnauthorized(service.ErrInvalidCredentials.Error())
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"worker": dto.NewWorkerResponse(result.Worker),
			"auth":   dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	exists, err := h.auth.VerifyEmail(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VerifyEmailResponse{Email: req.Email, Exists: exists}})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	workerID, ok := auth.WorkerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("worker required")
	}
	worker, err := h.auth.Me(c.UserContext(), workerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkerResponse(worker)})
}

// ListWorkers handles GET /api/auth/workers.
func (h *AuthHandler) ListWorkers(c *fiber.Ctx) error {
	workers, err := h.auth.ListWorkers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		items = append(items, dto.NewWorkerResponse(&workers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
