package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

const DefaultSampleInterval = time.Second

// TrainingStats aggregates the counters of a run and the resources of the process.
type TrainingStats struct {
	// --- TRAINING METRICS ---
	Epochs        uint64  `json:"epochs"`
	Batches       uint64  `json:"batches"`
	Samples       uint64  `json:"samples"`
	SamplesPerSec float64 `json:"samples_per_sec"`

	// --- PROCESS METRICS ---
	RSSBytes      uint64  `json:"rss_bytes"`
	PeakRSSBytes  uint64  `json:"peak_rss_bytes"`
	CPUPercent    float64 `json:"cpu_percent"`
	AllocMemMb    uint64  `json:"alloc_mem_mb"`
	NumGC         uint32  `json:"num_gc"`
	ElapsedSecond float64 `json:"elapsed_seconds"`
}

// MonitoringManager samples the training process at a fixed interval.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats TrainingStats
	process     *process.Process
	interval    time.Duration
	startedAt   time.Time
	lastCheck   time.Time
	lastSamples uint64

	epochs  uint64
	batches uint64
	samples uint64
}

// NewMonitoringManager attaches to the current process. A non-positive interval falls
// back to DefaultSampleInterval.
func NewMonitoringManager(log *slog.Logger, interval time.Duration) (*MonitoringManager, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	now := time.Now()
	return &MonitoringManager{
		log:       log,
		process:   p,
		interval:  interval,
		startedAt: now,
		lastCheck: now,
	}, nil
}

func (mm *MonitoringManager) IncrEpochs() {
	atomic.AddUint64(&mm.epochs, 1)
}

// IncrBatch counts one fitted batch of n samples.
func (mm *MonitoringManager) IncrBatch(n int) {
	atomic.AddUint64(&mm.batches, 1)
	atomic.AddUint64(&mm.samples, uint64(n))
}

// Listen samples until ctx is done.
func (mm *MonitoringManager) Listen(ctx context.Context) {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mm.log.Debug("Monitoring manager stopped")
			return
		case <-ticker.C:
			mm.Sample()
		}
	}
}

// Sample refreshes the latest stats immediately.
func (mm *MonitoringManager) Sample() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	now := time.Now()
	samples := atomic.LoadUint64(&mm.samples)
	if duration := now.Sub(mm.lastCheck).Seconds(); duration > 0 {
		mm.latestStats.SamplesPerSec = float64(samples-mm.lastSamples) / duration
	}
	mm.lastCheck = now
	mm.lastSamples = samples

	mm.latestStats.Epochs = atomic.LoadUint64(&mm.epochs)
	mm.latestStats.Batches = atomic.LoadUint64(&mm.batches)
	mm.latestStats.Samples = samples
	mm.latestStats.ElapsedSecond = now.Sub(mm.startedAt).Seconds()

	if memInfo, err := mm.process.MemoryInfo(); err == nil {
		mm.latestStats.RSSBytes = memInfo.RSS
		mm.latestStats.PeakRSSBytes = max(mm.latestStats.PeakRSSBytes, memInfo.RSS)
	} else {
		mm.log.Debug("Failed to read process memory", "error", err)
	}
	if cpu, err := mm.process.CPUPercent(); err == nil {
		mm.latestStats.CPUPercent = cpu
	} else {
		mm.log.Debug("Failed to read process cpu", "error", err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC

	mm.log.Debug("Stats updated",
		"batches", mm.latestStats.Batches,
		"samples_per_sec", mm.latestStats.SamplesPerSec,
		"rss_bytes", mm.latestStats.RSSBytes,
	)
}

func (mm *MonitoringManager) GetLatest() TrainingStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
