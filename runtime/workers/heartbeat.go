package workers

import (
	"context"
	"log/slog"
	"os"
	"sms-forwarder/observability"
	"time"

	"github.com/shirou/gopsutil/process"
)

type HeartbeatWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, monitoring *observability.MonitoringManager, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, monitoring: monitoring, interval: interval}
}

// Run logs the pipeline counters together with the process RSS and CPU at every interval.
func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := w.monitoring.GetLatest()
			rss, cpu, err := getSelfStats(p)
			if err != nil {
				w.log.Debug("Failed to collect self stats", "err", err)
			}
			w.log.Info("Heartbeat",
				"observed", stats.Observed,
				"forwarded", stats.Forwarded,
				"suppressed", stats.Suppressed,
				"malformed", stats.Malformed,
				"storage_errors", stats.StorageError,
				"dead_lettered", stats.DeadLettered,
				"delivered", stats.Delivered,
				"delivery_failures", stats.DeliveryFail,
				"queue", stats.QueueSize,
				"queue_capacity", stats.QueueCapacity,
				"rss_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
