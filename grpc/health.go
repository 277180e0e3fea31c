package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported by the health endpoint besides the overall "" service.
const ServiceName = "smsforwarder.Intake"

// HealthServer exposes the standard gRPC health protocol so the host can probe the service.
type HealthServer struct {
	log    *slog.Logger
	server *grpc.Server
	health *health.Server
}

// Track mirrors running into the health status every interval until ctx is done.
func (h *HealthServer) Track(ctx context.Context, running func() bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	serving := running()
	h.SetServing(serving)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if now := running(); now != serving {
				serving = now
				h.SetServing(serving)
				if !serving {
					h.log.Warn("Orchestrator is not running, reporting NOT_SERVING")
				}
			}
		}
	}
}

func NewHealthServer(log *slog.Logger) *HealthServer {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	h.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{log: log, server: s, health: h}
}

func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	h.log.Debug("Health status changed", "status", status.String())
}

// Serve blocks until Stop is called. grpc.ErrServerStopped is not reported.
func (h *HealthServer) Serve(listener net.Listener) error {
	if err := h.server.Serve(listener); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
