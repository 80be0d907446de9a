package metrics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/V-Kubarev/system-monitor-telegram/pkg/models"
)

// ProcessSnapshot captures point-in-time process CPU shares for the
// CPU-spike diagnostic log.
type ProcessSnapshot struct{}

// TopCPU returns the n busiest processes by CPU share, busiest first.
// Processes that disappear mid-walk are skipped.
func (ProcessSnapshot) TopCPU(ctx context.Context, n int) ([]models.ProcessSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	samples := make([]models.ProcessSample, 0, len(procs))
	for _, p := range procs {
		pct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			name = "?"
		}
		samples = append(samples, models.ProcessSample{
			PID:    p.Pid,
			Name:   name,
			CPUPct: pct,
		})
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].CPUPct > samples[j].CPUPct })
	if len(samples) > n {
		samples = samples[:n]
	}
	return samples, nil
}
