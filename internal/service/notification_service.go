package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/tournament-service/internal/config"
	"github.com/spec-kit/tournament-service/internal/events"
)

// NotificationService emits notifications for domain events. Delivery is a
// logged stub; failures never reach the triggering request.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventUserStatusChanged, n.handleUserStatusChanged)
	n.dispatcher.Subscribe(events.EventCompetitorCreated, n.handleCompetitorCreated)
	n.dispatcher.Subscribe(events.EventCompetitorReviewed, n.handleCompetitorReviewed)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("UserStatusChanged", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCompetitorCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CompetitorCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendAdminNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCompetitorReviewed(ctx context.Context, event events.Event) error {
	n.logger.Info("CompetitorReviewed", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendAdminNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.AdminBCC) == "" {
		return
	}
	n.logger.Debug("sendAdminNotificationStub",
		zap.String("bcc", n.cfg.AdminBCC),
		zap.String("event_type", string(event.Type)))
}
