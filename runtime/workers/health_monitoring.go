package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Gauge is a named integer sampled on every tick.
// Sample must be safe to call from another goroutine.
type Gauge struct {
	Name   string
	Sample func() int
}

// HealthMonitoringWorker periodically logs the relay's own CPU and RAM usage
// together with the provided gauges.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	gauges         []Gauge
	metricInterval time.Duration
}

func NewHealthMonitoringWorker(log *slog.Logger, metricInterval time.Duration, gauges ...Gauge) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{log: log, gauges: gauges, metricInterval: metricInterval}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			w.log.Info("Relay health", w.snapshot(p)...)
		}
	}
}

func (w *HealthMonitoringWorker) snapshot(p *process.Process) []any {
	attrs := make([]any, 0, 2*(len(w.gauges)+2))
	if cpu, err := p.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu", cpu)
	} else {
		w.log.Debug("Error while finding process cpu usage", "error", err)
	}
	if ram, err := p.MemoryPercent(); err == nil {
		attrs = append(attrs, "ram", ram)
	} else {
		w.log.Debug("Error while finding process ram usage", "error", err)
	}
	for _, g := range w.gauges {
		attrs = append(attrs, g.Name, g.Sample())
	}
	return attrs
}
