package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

const defaultWindow = time.Second

// Collector produces one metric dimension per invocation. Callers
// substitute a documented default when Collect fails: a transient probe
// failure must never take down the sampling loop.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (int, error)
}

// CPUCollector reads total CPU usage over a short fixed sampling
// window. Usage is 100 minus idle, truncated to an integer.
type CPUCollector struct {
	Window time.Duration
}

func (c *CPUCollector) Name() string { return "cpu" }

func (c *CPUCollector) Collect(ctx context.Context) (int, error) {
	pct, err := cpu.PercentWithContext(ctx, window(c.Window), false)
	if err != nil {
		return 0, fmt.Errorf("reading cpu usage: %w", err)
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("no cpu usage reported")
	}
	return clampPct(int(pct[0])), nil
}

// DiskCollector reads the used percentage of one mounted filesystem,
// the root filesystem by default.
type DiskCollector struct {
	Path string
}

func (c *DiskCollector) Name() string { return "disk" }

func (c *DiskCollector) Collect(ctx context.Context) (int, error) {
	path := c.Path
	if path == "" {
		path = "/"
	}
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("reading disk usage for %q: %w", path, err)
	}
	return clampPct(int(usage.UsedPercent)), nil
}

// MemCollector reads used/total memory as a percentage.
type MemCollector struct{}

func (c *MemCollector) Name() string { return "mem" }

func (c *MemCollector) Collect(ctx context.Context) (int, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading memory usage: %w", err)
	}
	return clampPct(int(vm.UsedPercent)), nil
}

// NetCollector measures receive+transmit throughput in KB/s on one
// named interface by sampling the kernel counters twice across the
// window and taking the delta.
type NetCollector struct {
	Interface string
	Window    time.Duration
}

func (c *NetCollector) Name() string { return "net" }

func (c *NetCollector) Collect(ctx context.Context) (int, error) {
	w := window(c.Window)

	first, err := c.counters(ctx)
	if err != nil {
		return 0, err
	}
	if err := sleepContext(ctx, w); err != nil {
		return 0, err
	}
	second, err := c.counters(ctx)
	if err != nil {
		return 0, err
	}

	rx := counterDelta(second.BytesRecv, first.BytesRecv)
	tx := counterDelta(second.BytesSent, first.BytesSent)
	kbps := float64(rx+tx) / 1024 / w.Seconds()
	return int(kbps), nil
}

// counterDelta returns cur-prev for a monotonic kernel counter. A
// counter that moved backwards (interface bounce, driver reload, wrap)
// reads as 0 for this window instead of wrapping the unsigned delta.
func counterDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func (c *NetCollector) counters(ctx context.Context) (gnet.IOCountersStat, error) {
	stats, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return gnet.IOCountersStat{}, fmt.Errorf("reading network counters: %w", err)
	}
	for _, st := range stats {
		if st.Name == c.Interface {
			return st, nil
		}
	}
	return gnet.IOCountersStat{}, fmt.Errorf("network interface %q not found", c.Interface)
}

func window(w time.Duration) time.Duration {
	if w <= 0 {
		return defaultWindow
	}
	return w
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
