package outbox

import (
	"context"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/config"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port"
	"github.com/cenkalti/backoff/v4"
)

// Handler relays stored events to the broker. An entry is removed only after
// the broker accepted it, so delivery is at least once.
type Handler struct {
	outbox   Repository
	broker   port.BrokerPort
	interval time.Duration
	batch    int
	backoff  *backoff.ExponentialBackOff
}

const defaultInterval = 500 * time.Millisecond

func NewHandler(outbox Repository, broker port.BrokerPort, config config.OutboxConfig) *Handler {
	interval := config.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = config.MaxBackoff
	if b.MaxInterval < interval {
		b.MaxInterval = interval
	}
	b.MaxElapsedTime = 0
	b.Reset()

	return &Handler{
		outbox:   outbox,
		broker:   broker,
		interval: interval,
		batch:    config.BatchSize,
		backoff:  b,
	}
}

// Start polls until ctx is done. Polling slows down while nothing can be
// relayed and returns to the configured interval after the first success.
func (h *Handler) Start(ctx context.Context) {
	timer := time.NewTimer(h.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			published, failed := h.relay(ctx)
			timer.Reset(h.nextPoll(ctx, published, failed))
		}
	}
}

func (h *Handler) nextPoll(ctx context.Context, published, failed int) time.Duration {
	if failed > 0 && published == 0 {
		wait := h.backoff.NextBackOff()
		logger.Warn(ctx, "outbox: relay stalled, backing off", map[string]any{
			"failed": failed,
			"wait":   wait.String(),
		})
		return wait
	}
	h.backoff.Reset()
	return h.interval
}

// Flush publishes one batch of pending entries and returns how many were relayed.
func (h *Handler) Flush(ctx context.Context) int {
	published, _ := h.relay(ctx)
	return published
}

func (h *Handler) relay(ctx context.Context) (published, failed int) {
	entries, err := h.outbox.FetchPending(ctx, h.batch)
	if err != nil {
		logger.Error(ctx, "outbox: failed to fetch pending events", err, map[string]any{
			"batch": h.batch,
		})
		return 0, 1
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		attrs := map[string]any{
			"outbox_id": entry.ID,
			"event":     entry.EventName,
			"entity":    entry.EntityName,
		}
		if err := h.broker.PublishRaw(ctx, entry.EventName, entry.EntityName, entry.EventData); err != nil {
			logger.Error(ctx, "outbox: failed to publish event", err, attrs)
			failed++
			continue
		}
		published++

		if err := h.outbox.Delete(ctx, entry.ID); err != nil {
			logger.Error(ctx, "outbox: failed to delete event after publish", err, attrs)
		}
	}

	if published > 0 {
		logger.Debug(ctx, "outbox: batch relayed", map[string]any{
			"published": published,
			"failed":    failed,
		})
	}
	return published, failed
}
