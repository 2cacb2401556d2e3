package dto

import (
	"github.com/spec-kit/ngo-case-service/internal/domain"
)

const dateLayout = "2006-01-02"

// CollectNeedRequest is the optional body of a collect call.
type CollectNeedRequest struct {
	BatchID *int64 `json:"batch_id"`
}

// SupplyNeedResponse is the public view of a supplies need.
type SupplyNeedResponse struct {
	ID         int64   `json:"need_id"`
	CaseID     int64   `json:"case_id"`
	SupplyID   int64   `json:"supply_id"`
	Quantity   int     `json:"quantity"`
	Status     string  `json:"status"`
	BatchID    *int64  `json:"batch_id,omitempty"`
	ApplyDate  string  `json:"apply_date"`
	PickupDate *string `json:"pickup_date,omitempty"`
}

// NewSupplyNeedResponse maps a need, formatting dates as yyyy-MM-dd.
func NewSupplyNeedResponse(n *domain.SupplyNeed) SupplyNeedResponse {
	resp := SupplyNeedResponse{
		ID:        n.ID,
		CaseID:    n.CaseID,
		SupplyID:  n.SupplyID,
		Quantity:  n.Quantity,
		Status:    string(n.Status),
		BatchID:   n.BatchID,
		ApplyDate: n.ApplyDate.Format(dateLayout),
	}
	if resp.Status == "" {
		resp.Status = string(domain.NeedStatusPending)
	}
	if n.PickupDate != nil {
		pickup := n.PickupDate.Format(dateLayout)
		resp.PickupDate = &pickup
	}
	return resp
}
