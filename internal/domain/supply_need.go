package domain

import "time"

// NeedStatus enumerates lifecycle states of a regular supplies need.
type NeedStatus string

const (
	NeedStatusPending   NeedStatus = "pending"
	NeedStatusApproved  NeedStatus = "approved"
	NeedStatusRejected  NeedStatus = "rejected"
	NeedStatusCollected NeedStatus = "collected"
)

// SupplyNeed is a regular supplies request filed on behalf of a case.
type SupplyNeed struct {
	ID         int64
	CaseID     int64
	SupplyID   int64
	Quantity   int
	Status     NeedStatus
	BatchID    *int64
	ApplyDate  time.Time
	PickupDate *time.Time
}
