package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RecentOutcome is one processed event kept for the heartbeat log.
type RecentOutcome struct {
	Sender    string `json:"sender"`
	Outcome   string `json:"outcome"`
	Timestamp string `json:"timestamp"`
}

// PipelineStats aggregates the counters reported by the heartbeat.
type PipelineStats struct {
	Observed     uint64 `json:"observed"`
	Forwarded    uint64 `json:"forwarded"`
	Suppressed   uint64 `json:"suppressed"`
	Malformed    uint64 `json:"malformed"`
	StorageError uint64 `json:"storage_error"`
	DeadLettered uint64 `json:"dead_lettered"`
	Delivered    uint64 `json:"delivered"`
	DeliveryFail uint64 `json:"delivery_fail"`

	QueueSize      int             `json:"queue_size"`
	QueueCapacity  int             `json:"queue_capacity"`
	AllocMemMb     uint64          `json:"alloc_mem_mb"`
	NumGC          uint32          `json:"num_gc"`
	RecentOutcomes []RecentOutcome `json:"recent_outcomes"`
}

// MonitoringManager counts what happens to every event so that nothing is lost silently.
type MonitoringManager struct {
	log    *slog.Logger
	mu     sync.RWMutex
	recent []RecentOutcome

	observed     uint64
	forwarded    uint64
	suppressed   uint64
	malformed    uint64
	storageError uint64
	deadLettered uint64
	delivered    uint64
	deliveryFail uint64

	queueSize     int
	queueCapacity int
}

const maxRecentOutcomes = 20

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, recent: make([]RecentOutcome, 0)}
}

func (mm *MonitoringManager) IncrObserved()     { atomic.AddUint64(&mm.observed, 1) }
func (mm *MonitoringManager) IncrMalformed()    { atomic.AddUint64(&mm.malformed, 1) }
func (mm *MonitoringManager) IncrStorageError() { atomic.AddUint64(&mm.storageError, 1) }
func (mm *MonitoringManager) IncrDeadLettered() { atomic.AddUint64(&mm.deadLettered, 1) }
func (mm *MonitoringManager) IncrDelivered()    { atomic.AddUint64(&mm.delivered, 1) }
func (mm *MonitoringManager) IncrDeliveryFail() { atomic.AddUint64(&mm.deliveryFail, 1) }

func (mm *MonitoringManager) IncrForwarded(sender string) {
	atomic.AddUint64(&mm.forwarded, 1)
	mm.addRecent(sender, "forwarded")
}

func (mm *MonitoringManager) IncrSuppressed(sender string) {
	atomic.AddUint64(&mm.suppressed, 1)
	mm.addRecent(sender, "suppressed")
}

// addRecent keeps the latest outcomes first, bounded to maxRecentOutcomes.
func (mm *MonitoringManager) addRecent(sender, outcome string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	entry := RecentOutcome{Sender: sender, Outcome: outcome, Timestamp: time.Now().Format("15:04:05")}
	mm.recent = append([]RecentOutcome{entry}, mm.recent...)
	if len(mm.recent) > maxRecentOutcomes {
		mm.recent = mm.recent[:maxRecentOutcomes]
	}
}

func (mm *MonitoringManager) UpdateQueue(size, capacity int) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.queueSize = size
	mm.queueCapacity = capacity
}

func (mm *MonitoringManager) GetLatest() PipelineStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.RLock()
	defer mm.mu.RUnlock()
	recent := make([]RecentOutcome, len(mm.recent))
	copy(recent, mm.recent)

	return PipelineStats{
		Observed:       atomic.LoadUint64(&mm.observed),
		Forwarded:      atomic.LoadUint64(&mm.forwarded),
		Suppressed:     atomic.LoadUint64(&mm.suppressed),
		Malformed:      atomic.LoadUint64(&mm.malformed),
		StorageError:   atomic.LoadUint64(&mm.storageError),
		DeadLettered:   atomic.LoadUint64(&mm.deadLettered),
		Delivered:      atomic.LoadUint64(&mm.delivered),
		DeliveryFail:   atomic.LoadUint64(&mm.deliveryFail),
		QueueSize:      mm.queueSize,
		QueueCapacity:  mm.queueCapacity,
		AllocMemMb:     m.Alloc / 1024 / 1024,
		NumGC:          m.NumGC,
		RecentOutcomes: recent,
	}
}
