package services

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// MulticastSender is the slice of the FCM messaging client the push path
// needs. *messaging.Client satisfies it.
type MulticastSender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushService fans a notification out to device tokens through FCM. Delivery
// here is best-effort: the dispatcher's aggregate outcome is decided by the
// vendor call, not by push results.
type PushService struct {
	sender   MulticastSender
	registry *DeviceRegistry
	logger   *zap.SugaredLogger
}

func NewPushService(sender MulticastSender, registry *DeviceRegistry, logger *zap.SugaredLogger) *PushService {
	return &PushService{sender: sender, registry: registry, logger: logger}
}

// PushToTokens sends one multicast message. Tokens FCM reports as
// unregistered are deactivated in the registry so they drop out of future
// resolution.
func (p *PushService) PushToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) {
	if p.sender == nil || len(tokens) == 0 {
		return
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	resp, err := p.sender.SendEachForMulticast(ctx, msg)
	if err != nil {
		p.logger.Warnw("push multicast failed", "error", err)
		return
	}

	for i, r := range resp.Responses {
		if r.Error == nil {
			continue
		}
		if messaging.IsUnregistered(r.Error) {
			// Token invalidated on the provider side; retire it.
			if derr := p.registry.DeactivateToken(tokens[i]); derr != nil {
				p.logger.Warnw("failed to deactivate stale token", "error", derr)
			}
			continue
		}
		p.logger.Debugw("push send failed for token", "error", r.Error)
	}
	p.logger.Infow("push multicast done", "success", resp.SuccessCount, "failure", resp.FailureCount)
}
