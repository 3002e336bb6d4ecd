package events

import (
	"context"
	"log/slog"
)

// AuditLog writes every directory event to the logger.
type AuditLog struct {
	logger *slog.Logger
}

func NewAuditLog(logger *slog.Logger) *AuditLog {
	return &AuditLog{logger: logger}
}

func (a *AuditLog) Handle(ctx context.Context, event Event) error {
	attrs := []any{
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"occurred_at", event.OccurredAt(),
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		for k, v := range data {
			attrs = append(attrs, k, v)
		}
	}
	a.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}

func (a *AuditLog) Register(bus *EventBus) {
	for _, eventType := range DirectoryEventTypes {
		bus.Subscribe(eventType, a.Handle)
	}
}
