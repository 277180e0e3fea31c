package workers

import (
	"context"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/observability"
	"sms-forwarder/repositories"
	"time"
)

var _ contract.Worker = (*ForwardWorker)(nil)

// ForwardWorker drains the outbox into the transport.
// Entries are acknowledged only after a successful delivery, so a crash
// between delivery and ack delivers the message again (at-least-once).
type ForwardWorker struct {
	log          *slog.Logger
	outbox       repositories.IOutbox
	transport    contract.Transport
	monitoring   *observability.MonitoringManager
	pollInterval time.Duration
	batchSize    int
}

func NewForwardWorker(log *slog.Logger,
	outbox repositories.IOutbox,
	transport contract.Transport,
	monitoring *observability.MonitoringManager,
	pollInterval time.Duration, batchSize int) *ForwardWorker {
	return &ForwardWorker{
		log:          log,
		outbox:       outbox,
		transport:    transport,
		monitoring:   monitoring,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

func (w *ForwardWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping forward worker")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil {
				w.log.Error("Outbox drain failed", "error", err)
			}
		}
	}
}

// Drain delivers one batch, oldest first, and stops at the first failed delivery
// to keep the order. It returns how many entries were delivered.
func (w *ForwardWorker) Drain(ctx context.Context) (int, error) {
	entries, err := w.outbox.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, entry := range entries {
		if err = w.transport.Deliver(ctx, entry); err != nil {
			w.monitoring.IncrDeliveryFail()
			w.log.Warn("Forward delivery failed", "id", entry.ID, "attempts", entry.Attempts+1, "error", err)
			if nackErr := w.outbox.Nack(ctx, entry); nackErr != nil {
				return delivered, nackErr
			}
			return delivered, nil
		}
		if err = w.outbox.Ack(ctx, entry); err != nil {
			return delivered, err
		}
		w.monitoring.IncrDelivered()
		delivered++
	}
	return delivered, nil
}
