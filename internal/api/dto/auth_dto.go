package dto

import (
	"time"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest payload for email verification.
type VerifyEmailRequest struct {
	Email string `json:"email"`
}

// VerifyEmailResponse reports whether the email is registered.
type VerifyEmailResponse struct {
	Email  string `json:"email"`
	Exists bool   `json:"exists"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WorkerResponse is the public view of a worker.
type WorkerResponse struct {
	ID    int64  `json:"worker_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// NewWorkerResponse maps a worker without its credential.
func NewWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		ID:    w.ID,
		Email: w.Email,
		Name:  w.Name,
		Role:  string(w.EffectiveRole()),
	}
}
