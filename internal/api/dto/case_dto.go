package dto

import (
	"time"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// CaseResponse is the public view of a case.
type CaseResponse struct {
	ID        int64     `json:"case_id"`
	Name      string    `json:"name"`
	WorkerID  int64     `json:"worker_id"`
	Status    string    `json:"status"`
	City      string    `json:"city,omitempty"`
	District  string    `json:"district,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCaseResponse maps a case.
func NewCaseResponse(c *domain.Case) CaseResponse {
	return CaseResponse{
		ID:        c.ID,
		Name:      c.Name,
		WorkerID:  c.WorkerID,
		Status:    c.Status,
		City:      c.City,
		District:  c.District,
		CreatedAt: c.CreatedAt,
	}
}

// AccessibleCasesResponse lists the case ids visible to the caller.
type AccessibleCasesResponse struct {
	CaseIDs []int64 `json:"case_ids"`
}

// PermissionCheckResponse reports a decision for UI toggling.
type PermissionCheckResponse struct {
	Action  string `json:"action"`
	CaseID  *int64 `json:"case_id,omitempty"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
