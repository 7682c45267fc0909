package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/workspace-service/internal/events"
)

// NotificationService turns domain events into notifications. The current
// transport is the structured log; the subscription shape stays the same when
// a real channel is added.
type NotificationService struct {
	logger     *zap.Logger
	dispatcher events.Dispatcher
}

// NewNotificationService builds the service.
func NewNotificationService(logger *zap.Logger, dispatcher events.Dispatcher) *NotificationService {
	return &NotificationService{logger: logger, dispatcher: dispatcher}
}

// RegisterHandlers subscribes to the events worth notifying on.
func (s *NotificationService) RegisterHandlers() {
	for _, eventType := range []events.EventType{
		events.EventTaskCreated,
		events.EventTaskStatusChanged,
		events.EventProjectCreated,
		events.EventPagePublished,
		events.EventUserRegistered,
		events.EventUserDeleted,
	} {
		s.dispatcher.Subscribe(eventType, s.notify)
	}
}

func (s *NotificationService) notify(_ context.Context, event events.Event) error {
	s.logger.Info("notification",
		zap.String("event", string(event.Type)),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}
