// Package runtime wires the intake queue, the workers and their supervisor.
// It orchestrates the system without containing business logic.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/observability"
	"sms-forwarder/repositories"
	"sms-forwarder/runtime/workers"
	"sms-forwarder/services"
	"sync"
	"time"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Settings struct {
	BufferSize          int
	IntakeMaxRetries    int
	IntakeRetryInterval time.Duration
	ForwardPollInterval time.Duration
	ForwardBatchSize    int
	MetricInterval      time.Duration
}

type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	service    services.IIntakeService
	outbox     repositories.IOutbox
	transport  contract.Transport
	errorSink  contract.ErrorSink
	monitoring *observability.MonitoringManager
	events     chan domain.DeliveryEvent
	settings   Settings
	register   sync.Once
	cancel     context.CancelFunc
	done       chan struct{}
	running    bool
}

func NewOrchestrator(log *slog.Logger,
	supervisor contract.ISupervisor,
	service services.IIntakeService,
	outbox repositories.IOutbox,
	transport contract.Transport,
	errorSink contract.ErrorSink,
	monitoring *observability.MonitoringManager,
	settings Settings) *Orchestrator {
	return &Orchestrator{
		log:        log,
		supervisor: supervisor,
		service:    service,
		outbox:     outbox,
		transport:  transport,
		errorSink:  errorSink,
		monitoring: monitoring,
		events:     make(chan domain.DeliveryEvent, settings.BufferSize),
		settings:   settings,
	}
}

// Submit queues a delivery event for the intake worker.
// It blocks while the queue is full: events are never dropped here.
func (o *Orchestrator) Submit(ctx context.Context, evt domain.DeliveryEvent) error {
	select {
	case o.events <- evt:
		o.monitoring.UpdateQueue(len(o.events), cap(o.events))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submit event %s: %w", evt.ID, ctx.Err())
	}
}

// Start runs the supervisor in the background.
// Workers are registered on the first Start only, a restart after Stop reuses them.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.register.Do(o.registerWorkers)
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	o.running = true
	done := o.done
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	go func() {
		defer close(done)
		o.supervisor.Run(runCtx)
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()
	return nil
}

func (o *Orchestrator) registerWorkers() {
	intakeWorker := workers.NewIntakeWorker(o.log, o.service, o.events, o.errorSink, o.monitoring,
		o.settings.IntakeMaxRetries, o.settings.IntakeRetryInterval)
	forwardWorker := workers.NewForwardWorker(o.log, o.outbox, o.transport, o.monitoring,
		o.settings.ForwardPollInterval, o.settings.ForwardBatchSize)
	heartbeatWorker := workers.NewHeartbeatWorker(o.log, o.monitoring, o.settings.MetricInterval)
	o.supervisor.Add(intakeWorker, forwardWorker, heartbeatWorker)
}

func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Stats exposes the pipeline counters.
func (o *Orchestrator) Stats() observability.PipelineStats {
	return o.monitoring.GetLatest()
}

// Stop cancels the supervised workers and waits for them to return.
// Events still queued at that point go to the error sink.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.supervisor.Stop()
	if done != nil {
		<-done
	}
	o.drainToErrorSink()
	o.log.Debug("Orchestrator stopped")
}

func (o *Orchestrator) drainToErrorSink() {
	for {
		select {
		case evt := <-o.events:
			o.monitoring.IncrDeadLettered()
			if err := o.errorSink.Consume(context.Background(), evt, errors.ErrShutdown); err != nil {
				o.log.Error("Queued event lost at shutdown", "id", evt.ID, "error", err)
			}
		default:
			return
		}
	}
}
