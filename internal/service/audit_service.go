package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/observability"
)

// AuditService records auth lifecycle events as structured log entries and
// denial counters. It never logs identifiers for failed logins.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleAccountRegistered)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handleTokenRefreshed)
	a.dispatcher.Subscribe(events.EventAccountDeactivated, a.handleAccountDeactivated)
}

func (a *AuditService) handleAccountRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("AccountRegistered",
		zap.String("role", string(event.Role)),
		zap.String("account_id", event.AccountID))
	return nil
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded",
		zap.String("role", string(event.Role)),
		zap.String("account_id", event.AccountID))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed", zap.String("role", string(event.Role)))
	a.metrics.RecordAuthDenied(string(event.Role), "invalid_credentials")
	return nil
}

func (a *AuditService) handleTokenRefreshed(_ context.Context, event events.Event) error {
	a.logger.Info("TokenRefreshed",
		zap.String("role", string(event.Role)),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleAccountDeactivated(_ context.Context, event events.Event) error {
	a.logger.Info("AccountDeactivated",
		zap.String("role", string(event.Role)),
		zap.String("account_id", event.AccountID))
	return nil
}
