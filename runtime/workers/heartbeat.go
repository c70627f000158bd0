package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"creator-chat/observability"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker periodically logs process health (CPU, RAM, status)
// together with the delivery counters. It is the only place that polls
// the OS; everything else just bumps atomic counters.
type HeartbeatWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewHeartbeatWorker(log *slog.Logger,
	monitoring *observability.MonitoringManager, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, monitoring: monitoring, interval: interval}
}

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
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			stats := w.monitoring.GetLatest()
			w.log.Info("Heartbeat",
				"status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"connections", stats.Connections,
				"delivered", stats.Delivered,
				"queued", stats.Queued,
				"deduped", stats.Deduped)
		}
	}
}

// selfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
