package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/observability"
	"sms-forwarder/services"
	"time"

	"github.com/go-playground/validator/v10"
)

// Ensure *IntakeWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*IntakeWorker)(nil)

// IntakeWorker is the single consumer of delivery events.
// Events are processed one at a time in arrival order; an event that keeps
// failing is retried, then handed to the error sink instead of being dropped.
type IntakeWorker struct {
	log           *slog.Logger
	validator     *validator.Validate
	service       services.IIntakeService
	events        chan domain.DeliveryEvent
	errorSink     contract.ErrorSink
	monitoring    *observability.MonitoringManager
	maxRetries    int
	retryInterval time.Duration
}

func NewIntakeWorker(log *slog.Logger,
	service services.IIntakeService,
	events chan domain.DeliveryEvent,
	errorSink contract.ErrorSink,
	monitoring *observability.MonitoringManager,
	maxRetries int, retryInterval time.Duration) *IntakeWorker {
	return &IntakeWorker{
		log:           log,
		validator:     validator.New(),
		service:       service,
		events:        events,
		errorSink:     errorSink,
		monitoring:    monitoring,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
	}
}

func (w *IntakeWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping intake worker")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Delivery event channel is closed")
				return nil
			}
			w.monitoring.UpdateQueue(len(w.events), cap(w.events))
			w.Handle(ctx, evt)
		}
	}
}

// Handle resolves one event to forwarded, suppressed, dropped (malformed) or dead-lettered.
func (w *IntakeWorker) Handle(ctx context.Context, evt domain.DeliveryEvent) {
	if err := w.validator.Struct(evt); err != nil {
		w.monitoring.IncrMalformed()
		w.log.Warn("Dropping malformed delivery event", "id", evt.ID, "error", err)
		return
	}

	var err error
	for attempt := 0; ; attempt++ {
		_, err = w.service.OnMessageEvent(ctx, evt.Fragments)
		if err == nil || stderrors.Is(err, errors.ErrMalformedEvent) {
			return
		}
		if attempt >= w.maxRetries {
			break
		}
		w.log.Warn("Delivery event failed, retrying",
			"id", evt.ID, "attempt", attempt+1, "max_retries", w.maxRetries, "error", err)
		select {
		case <-ctx.Done():
			w.deadLetter(ctx, evt, stderrors.Join(err, ctx.Err()))
			return
		case <-time.After(w.retryInterval):
		}
	}
	w.deadLetter(ctx, evt, err)
}

func (w *IntakeWorker) deadLetter(ctx context.Context, evt domain.DeliveryEvent, cause error) {
	w.monitoring.IncrDeadLettered()
	// The sink must still get the event when shutdown interrupted the retries
	if err := w.errorSink.Consume(context.WithoutCancel(ctx), evt, cause); err != nil {
		w.log.Error("Delivery event lost, error sink failed",
			"id", evt.ID, "cause", cause, "error", err)
		return
	}
	w.log.Error("Delivery event sent to error sink", "id", evt.ID, "cause", cause)
}
