package alert

import (
	"fmt"
	"time"

	"github.com/V-Kubarev/system-monitor-telegram/pkg/models"
)

// Evaluate maps one sample against the configured thresholds and
// returns zero or more alerts. All comparisons are strict greater-than:
// a reading exactly at the threshold does not fire. Evaluate keeps no
// state between calls, so every breaching cycle emits a fresh alert.
func Evaluate(s models.Sample, t models.Thresholds) []models.Alert {
	var alerts []models.Alert

	if s.CPUPct > t.CPUPct {
		alerts = append(alerts, models.Alert{
			Timestamp: s.Timestamp,
			Kind:      models.KindCPU,
			Message:   fmt.Sprintf("CPU usage %d%% exceeds threshold %d%%", s.CPUPct, t.CPUPct),
		})
	}
	if s.DiskPct > t.DiskPct {
		alerts = append(alerts, models.Alert{
			Timestamp: s.Timestamp,
			Kind:      models.KindDisk,
			Message:   fmt.Sprintf("disk usage %d%% exceeds threshold %d%%", s.DiskPct, t.DiskPct),
		})
	}
	if s.MemPct > t.MemPct {
		alerts = append(alerts, models.Alert{
			Timestamp: s.Timestamp,
			Kind:      models.KindMem,
			Message:   fmt.Sprintf("memory usage %d%% exceeds threshold %d%%", s.MemPct, t.MemPct),
		})
	}
	if s.NetKBps > t.NetKBps {
		alerts = append(alerts, models.Alert{
			Timestamp: s.Timestamp,
			Kind:      models.KindNet,
			Message:   fmt.Sprintf("network throughput %d KB/s exceeds threshold %d KB/s on %s", s.NetKBps, t.NetKBps, t.Interface),
		})
	}

	return alerts
}

// HostAlert records one unreachable connectivity target. Host failures
// are reported individually at collection time because each one is
// separately actionable.
func HostAlert(ts time.Time, host string) models.Alert {
	return models.Alert{
		Timestamp: ts,
		Kind:      models.KindConnectivity,
		Message:   fmt.Sprintf("host %s is unreachable", host),
	}
}
