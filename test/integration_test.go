package test

import (
	"context"
	"log/slog"
	"sms-forwarder/dedup"
	"sms-forwarder/domain"
	"sms-forwarder/identity"
	"sms-forwarder/observability"
	"sms-forwarder/repositories"
	"sms-forwarder/runtime"
	"sms-forwarder/runtime/workers"
	"sms-forwarder/services"
	"sms-forwarder/sink"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// recordingTransport keeps every delivered message in order.
type recordingTransport struct {
	mu        sync.Mutex
	delivered []domain.InboundMessage
}

func (r *recordingTransport) Deliver(_ context.Context, entry domain.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, entry.Message)
	return nil
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

type stack struct {
	db           *badger.DB
	store        *repositories.RecordStore
	orchestrator *runtime.Orchestrator
}

func startStack(t *testing.T, dir string, transport *recordingTransport) stack {
	db, err := badger.Open(badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	store := repositories.NewRecordStore(db, log)
	outbox := repositories.NewOutbox(db, log)
	resolver := identity.NewDeviceResolver(log, identity.StaticLine(""), identity.StaticSubscriptions("+202"), "")
	service := services.NewIntakeService(log, resolver, dedup.NewDeduplicator(log, store), store, outbox, monitoring)

	orchestrator := runtime.NewOrchestrator(log,
		workers.NewSupervisor(log, 10*time.Millisecond),
		service, outbox, transport,
		sink.NewDeadLetterSink(dir+"/dead_letters.jsonl", log),
		monitoring,
		runtime.Settings{
			BufferSize:          16,
			IntakeMaxRetries:    2,
			IntakeRetryInterval: 5 * time.Millisecond,
			ForwardPollInterval: 10 * time.Millisecond,
			ForwardBatchSize:    10,
			MetricInterval:      50 * time.Millisecond,
		},
	)
	require.NoError(t, orchestrator.Start(context.Background()))
	return stack{db: db, store: store, orchestrator: orchestrator}
}

func (s stack) stop() {
	s.orchestrator.Stop()
	_ = s.db.Close()
}

func Test_Scenario_Dedup_Survives_Restart(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()
	transport := &recordingTransport{}
	otp := domain.Fragment{Sender: lo.ToPtr("+201"), Body: "OTP 123"}

	// 1. First run forwards the message
	first := startStack(t, dir, transport)
	req.NoError(first.orchestrator.Submit(ctx, domain.NewDeliveryEvent(otp)))
	// Delivered is counted once the outbox entry is acknowledged
	req.Eventually(func() bool {
		return first.orchestrator.Stats().Delivered == 1
	}, 2*time.Second, 10*time.Millisecond)
	first.stop()

	// 2. After a restart the same message is observed but suppressed
	second := startStack(t, dir, transport)
	defer second.stop()
	req.NoError(second.orchestrator.Submit(ctx, domain.NewDeliveryEvent(otp)))
	req.Eventually(func() bool {
		return second.orchestrator.Stats().Suppressed == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 3. A split message with a new body is forwarded
	req.NoError(second.orchestrator.Submit(ctx, domain.NewDeliveryEvent(
		domain.Fragment{Sender: lo.ToPtr("+201"), Body: "OTP "},
		domain.Fragment{Sender: nil, Body: "456"},
	)))
	req.Eventually(func() bool { return transport.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	req.Equal([]domain.InboundMessage{
		{Sender: "+201", Body: "OTP 123", ReceivingIdentity: "+202"},
		{Sender: "+201", Body: "OTP 456", ReceivingIdentity: "+202"},
	}, transport.delivered)

	observed, found, err := second.store.Get(ctx, domain.SlotLastObserved)
	req.NoError(err)
	req.True(found)
	req.Equal("OTP 456", observed.Body)
}
