package workers

import (
	"context"
	"log/slog"
	"minichat/contract"
	"minichat/observability"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs relay counters together with the
// process footprint (RSS, CPU). Observability only, no side effects on
// routing.
type TelemetryWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

var _ contract.Worker = (*TelemetryWorker)(nil)

func NewTelemetryWorker(log *slog.Logger, monitoring *observability.MonitoringManager,
	interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, monitoring: monitoring, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker", "interval", w.interval)
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
			rssMb, cpuPercent, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitoring.GetLatest()
			w.log.Info("Relay stats",
				"connections_opened", stats.ConnectionsOpened,
				"connections_closed", stats.ConnectionsClosed,
				"handshake_retries", stats.HandshakeRetries,
				"lines_routed", stats.LinesRouted,
				"lines_dropped", stats.LinesDropped,
				"censored_messages", stats.CensoredMessages,
				"rss_mb", rssMb,
				"cpu_percent", cpuPercent)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS / 1024 / 1024, cpuPercent, nil
}
