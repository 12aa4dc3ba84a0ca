// FILE: internal/service/audit_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"
)

// EventAuditService tails the NATS bus and writes every event into the
// structured log, which is what the admin log endpoints read. Account, agent
// and settings changes all leave a durable trace here.
type EventAuditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewEventAuditService(sub *pktNats.Subscriber, log logger.ILogger) *EventAuditService {
	return &EventAuditService{subscriber: sub, logger: log}
}

// Start begins listening to the event bus.
func (s *EventAuditService) Start() {
	err := s.subscriber.Subscribe("events.>", "audit-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("EventAudit", "Failed to start audit subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventAudit", "Audit service started, listening to events.>", nil)
}

func (s *EventAuditService) handleEvent(ctx context.Context, event events.Event) error {
	// Subjects arrive as "events.<TYPE>"
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	s.logger.Info("EventAudit", fmt.Sprintf("Event %s", typeCode), event.Payload())
	return nil
}
