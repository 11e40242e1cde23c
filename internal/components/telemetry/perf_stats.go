package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

// InstrumentPerfStats records process gauges every 30 seconds until ctx is done.
// The meter is looked up lazily so that it binds to the provider installed by Setup.
func InstrumentPerfStats(ctx context.Context) {
	meter := otel.Meter("go.perf_stats")
	cpuGauge, _ := meter.Float64Gauge("cpu_usage")
	memoryGauge, _ := meter.Int64Gauge("allocated_mb")
	liveObjectsGauge, _ := meter.Int64Gauge("live_objects")
	goroutineGauge, _ := meter.Int64Gauge("goroutine_count")

	go func() {
		var memStats runtime.MemStats
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runtime.ReadMemStats(&memStats)

				cpuUsage, err := cpu.PercentWithContext(ctx, time.Second, false)
				if err == nil && len(cpuUsage) > 0 {
					cpuGauge.Record(ctx, cpuUsage[0])
				} else if err != nil {
					slog.Debug("failed to read cpu usage", "err", err)
				}

				memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
				goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			case <-ctx.Done():
				return
			}
		}
	}()
}
