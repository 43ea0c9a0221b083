package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-registration-service/internal/config"
	"github.com/spec-kit/event-registration-service/internal/events"
)

// NotificationService delivers ticket confirmations for domain events. The
// email and webhook transports are narrow stubs; the ledger only needs a
// fire-and-forget signal.
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
	n.dispatcher.Subscribe(events.EventRegistrationCreated, n.handleRegistrationCreated)
	n.dispatcher.Subscribe(events.EventRegistrationCancelled, n.handleRegistrationCancelled)
	n.dispatcher.Subscribe(events.EventCounterReconciled, n.handleCounterReconciled)
}

func (n *NotificationService) handleRegistrationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RegistrationCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("RegistrationCreated",
		zap.String("event_id", event.EventID),
		zap.String("registration_id", payload.RegistrationID))
	n.sendTicketEmailStub(ctx, payload)
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRegistrationCancelled(ctx context.Context, event events.Event) error {
	n.logger.Info("RegistrationCancelled", zap.String("event_id", event.EventID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCounterReconciled(ctx context.Context, event events.Event) error {
	n.logger.Info("CounterReconciled", zap.String("event_id", event.EventID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendTicketEmailStub(ctx context.Context, payload events.RegistrationCreatedPayload) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendTicketEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", payload.UserEmail),
		zap.String("event_title", payload.EventTitle))
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.Type)))
}
