package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mdAli87/ISF-admin/models"

	"go.uber.org/zap"
)

const defaultProviderTimeout = 10 * time.Second

// Recipient is one target of a dispatch, derived from the training event's
// assigned trainers.
type Recipient struct {
	UserID uint
	Email  string
	Phone  string
}

// DispatchResult is what the UI layer needs to render the outcome toast.
// Any Failed > 0 means the notification record was marked failed.
type DispatchResult struct {
	Sent   int
	Failed int
}

func (r DispatchResult) AllSent() bool { return r.Failed == 0 }

// Dispatcher orchestrates one notification attempt:
// token resolution -> per-recipient vendor calls -> status write-back.
// The status write strictly follows the resolution of every vendor call.
type Dispatcher struct {
	store      *NotificationStore
	registry   *DeviceRegistry
	provider   Provider
	push       *PushService
	hub        *RealtimeHub
	templateID string
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

func NewDispatcher(store *NotificationStore, registry *DeviceRegistry, provider Provider, push *PushService, hub *RealtimeHub, templateID string, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		store:      store,
		registry:   registry,
		provider:   provider,
		push:       push,
		hub:        hub,
		templateID: templateID,
		timeout:    defaultProviderTimeout,
		logger:     logger,
	}
}

// Dispatch sends the notification to every recipient and settles the record's
// status. Recipient calls are issued concurrently and all awaited; one slow
// or failing recipient never hides the others' outcomes. With zero reachable
// recipients the dispatch is a no-op success: there is nothing to fail.
func (d *Dispatcher) Dispatch(ctx context.Context, n *models.Notification, recipients []Recipient, mergeTags map[string]string) (DispatchResult, error) {
	reachable := make([]Recipient, 0, len(recipients))
	for _, rcp := range recipients {
		if rcp.Email != "" || rcp.Phone != "" || rcp.UserID != 0 {
			reachable = append(reachable, rcp)
		}
	}
	if len(reachable) == 0 {
		// Nothing to fail; settle the record so the scheduler never re-picks it.
		d.logger.Infow("dispatch with no reachable recipients", "notification_id", n.ID)
		if _, serr := d.store.MarkSent(n.ID); serr != nil {
			d.logger.Errorw("failed to settle empty dispatch", "notification_id", n.ID, "error", serr)
		}
		return DispatchResult{}, nil
	}

	// Token resolution. Recipients without an active token are skipped for
	// push but still get the vendor call; the vendor picks their channel.
	userIDs := make([]uint, 0, len(reachable))
	for _, rcp := range reachable {
		if rcp.UserID != 0 {
			userIDs = append(userIDs, rcp.UserID)
		}
	}
	tokens, err := d.registry.ActiveTokens(userIDs)
	if err != nil {
		d.logger.Warnw("token resolution failed, continuing without push", "error", err)
		tokens = nil
	}

	errs := make([]error, len(reachable))
	var wg sync.WaitGroup
	for i, rcp := range reachable {
		wg.Add(1)
		go func(i int, rcp Recipient) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			errs[i] = d.provider.Send(callCtx, SendRequest{
				TemplateID: d.templateID,
				User: ProviderUser{
					ID:     strconv.FormatUint(uint64(rcp.UserID), 10),
					Email:  rcp.Email,
					Number: rcp.Phone,
				},
				MergeTags: mergeTags,
			})
		}(i, rcp)
	}
	wg.Wait()

	result := DispatchResult{}
	for i, err := range errs {
		if err != nil {
			result.Failed++
			d.logger.Warnw("recipient dispatch failed",
				"notification_id", n.ID, "email", reachable[i].Email, "error", err)
		} else {
			result.Sent++
		}
	}

	// Best-effort push so open dashboard sessions see the message too.
	if d.push != nil && len(tokens) > 0 {
		raw := make([]string, 0, len(tokens))
		for _, t := range tokens {
			raw = append(raw, t.DeviceToken)
		}
		d.push.PushToTokens(ctx, raw, n.Title, n.Body, map[string]string{
			"notificationId":  n.ID.String(),
			"trainingEventId": strconv.FormatUint(uint64(n.TrainingEventID), 10),
		})
	}
	if d.hub != nil {
		d.hub.Broadcast(ForegroundMessage{
			NotificationID: n.ID.String(),
			Title:          n.Title,
			Body:           n.Body,
		})
	}

	// Status settles only after every recipient call resolved. Any failure
	// taints the record as failed; per-recipient counts go back to the UI.
	if result.Failed > 0 {
		if _, serr := d.store.MarkFailed(n.ID); serr != nil {
			d.logger.Errorw("failed to mark notification failed", "notification_id", n.ID, "error", serr)
		}
		return result, providerErr("dispatch", fmt.Errorf("%d of %d recipient calls failed", result.Failed, len(reachable)))
	}
	if _, serr := d.store.MarkSent(n.ID); serr != nil {
		d.logger.Errorw("failed to mark notification sent", "notification_id", n.ID, "error", serr)
		return result, serr
	}
	return result, nil
}
