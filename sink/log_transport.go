package sink

import (
	"context"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
)

var _ contract.Transport = LogTransport{}

// LogTransport stands in for the remote API: it writes one structured line per forwarded message.
type LogTransport struct {
	log *slog.Logger
}

func NewLogTransport(log *slog.Logger) LogTransport {
	return LogTransport{log: log}
}

func (t LogTransport) Deliver(ctx context.Context, entry domain.OutboxEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.log.Info("SMS forwarded",
		"id", entry.ID,
		"sender", entry.Message.Sender,
		"receiver", entry.Message.ReceivingIdentity,
		"message", entry.Message.Body,
		"enqueued_at", entry.EnqueuedAt,
		"attempts", entry.Attempts,
	)
	return nil
}
