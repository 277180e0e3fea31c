package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sms-forwarder/dedup"
	grpc2 "sms-forwarder/grpc"
	"sms-forwarder/identity"
	"sms-forwarder/internal"
	"sms-forwarder/observability"
	"sms-forwarder/repositories"
	"sms-forwarder/runtime"
	"sms-forwarder/runtime/workers"
	"sms-forwarder/services"
	"sms-forwarder/sink"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const healthCheckInterval = time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sms forwarder terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the service lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every defer (badger close) run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Pipeline
	monitoring := observability.NewMonitoringManager(log)
	store := repositories.NewRecordStore(db, log)
	outbox := repositories.NewOutbox(db, log)
	resolver := identity.NewDeviceResolver(log,
		identity.StaticLine(config.PrimaryLineNumber),
		identity.StaticSubscriptions(config.SubscriptionNumbers),
		config.DefaultIdentity,
	)
	service := services.NewIntakeService(log, resolver, dedup.NewDeduplicator(log, store), store, outbox, monitoring)

	// 4. Supervision & Orchestration
	orchestrator := runtime.NewOrchestrator(log,
		workers.NewSupervisor(log, config.RestartInterval),
		service, outbox,
		sink.NewLogTransport(log),
		sink.NewDeadLetterSink(config.DeadLetterFilepath, log),
		monitoring,
		runtime.Settings{
			BufferSize:          config.BufferSize,
			IntakeMaxRetries:    config.IntakeMaxRetries,
			IntakeRetryInterval: config.IntakeRetryInterval,
			ForwardPollInterval: config.ForwardPollInterval,
			ForwardBatchSize:    config.ForwardBatchSize,
			MetricInterval:      config.MetricInterval,
		},
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = orchestrator.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("orchestrator failed to start: %w", err)
	}

	// 6. Health endpoint
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		orchestrator.Stop()
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	healthServer := grpc2.NewHealthServer(log)
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gRPC health server", "address", address, "at", time.Now().UTC())
		if err := healthServer.Serve(listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go healthServer.Track(ctx, orchestrator.Running, healthCheckInterval)

	// 7. Delivery events from the host, one JSON object per line on stdin
	go func() {
		count, err := runtime.NewLineEventSource(log, os.Stdin).Pump(ctx, orchestrator)
		if err != nil && ctx.Err() == nil {
			log.Error("Event source stopped", "submitted", count, "error", err)
			return
		}
		log.Info("Event source drained", "submitted", count)
	}()

	// 8. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		code = exitRuntime
	}

	// 9. Final Cleanup
	healthServer.SetServing(false)
	healthServer.Stop()
	orchestrator.Stop()
	log.Info("Program stopped cleanly", "stats", orchestrator.Stats())

	return code, err
}
