package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ngo-case-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccessGranted EventType = "access_granted"
	EventAccessDenied  EventType = "access_denied"
	EventNeedApproved  EventType = "need_approved"
	EventNeedRejected  EventType = "need_rejected"
	EventNeedCollected EventType = "need_collected"
	EventNeedDeleted   EventType = "need_deleted"
)

// Event represents a domain event emitted by the gate and services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	WorkerID  int64       `json:"worker_id,omitempty"`
	CaseID    *int64      `json:"case_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, workerID int64, caseID *int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		WorkerID:  workerID,
		CaseID:    caseID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccessPayload describes a gate decision.
type AccessPayload struct {
	Action    string `json:"action"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NeedStatusPayload describes a supplies need transition.
type NeedStatusPayload struct {
	NeedID    int64             `json:"need_id"`
	OldStatus domain.NeedStatus `json:"old_status,omitempty"`
	NewStatus domain.NeedStatus `json:"new_status,omitempty"`
	BatchID   *int64            `json:"batch_id,omitempty"`
}
