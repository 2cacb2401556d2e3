package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ngo-case-service/internal/events"
)

// NotificationService writes the audit trail for gate decisions and need
// transitions.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	logGranted bool
}

// NewNotificationService creates the service. Granted decisions are only
// logged when logGranted is set.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, logGranted bool) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		logGranted: logGranted,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccessDenied, n.handleAccessDenied)
	n.dispatcher.Subscribe(events.EventAccessGranted, n.handleAccessGranted)
	for _, t := range []events.EventType{
		events.EventNeedApproved,
		events.EventNeedRejected,
		events.EventNeedCollected,
		events.EventNeedDeleted,
	} {
		n.dispatcher.Subscribe(t, n.handleNeedChanged)
	}
}

func (n *NotificationService) handleAccessDenied(_ context.Context, event events.Event) error {
	n.logger.Warn("access_denied", n.accessFields(event)...)
	return nil
}

func (n *NotificationService) handleAccessGranted(_ context.Context, event events.Event) error {
	if !n.logGranted {
		return nil
	}
	n.logger.Info("access_granted", n.accessFields(event)...)
	return nil
}

func (n *NotificationService) handleNeedChanged(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("worker_id", event.WorkerID),
		zap.Int64p("case_id", event.CaseID),
	}
	if p, ok := event.Payload.(events.NeedStatusPayload); ok {
		fields = append(fields,
			zap.Int64("need_id", p.NeedID),
			zap.String("old_status", string(p.OldStatus)),
			zap.String("new_status", string(p.NewStatus)),
			zap.Int64p("batch_id", p.BatchID))
	}
	n.logger.Info(string(event.Type), fields...)
	return nil
}

func (n *NotificationService) accessFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("worker_id", event.WorkerID),
		zap.Int64p("case_id", event.CaseID),
	}
	if p, ok := event.Payload.(events.AccessPayload); ok {
		fields = append(fields,
			zap.String("action", p.Action),
			zap.String("method", p.Method),
			zap.String("path", p.Path),
			zap.String("reason", p.Reason),
			zap.String("request_id", p.RequestID))
	}
	return fields
}
