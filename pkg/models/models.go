package models

import (
	"errors"
	"fmt"
	"time"
)

// Connectivity is the overall reachability verdict for one cycle.
type Connectivity string

const (
	ConnectivityOK   Connectivity = "OK"
	ConnectivityFAIL Connectivity = "FAIL"
)

// AlertKind names the metric dimension that breached its threshold.
type AlertKind string

const (
	KindCPU          AlertKind = "CPU"
	KindDisk         AlertKind = "DISK"
	KindMem          AlertKind = "MEM"
	KindNet          AlertKind = "NET"
	KindConnectivity AlertKind = "CONNECTIVITY"
)

// Sample holds one collection cycle's measurements. Every field is
// always populated: a failed probe yields 0 for its dimension, never an
// absent value, so downstream consumers never see partial samples.
type Sample struct {
	Timestamp    time.Time
	CPUPct       int
	DiskPct      int
	MemPct       int
	NetKBps      int
	Connectivity Connectivity
}

// Alert is a single threshold-breach event. Alerts are append-only
// facts: repeated breaches across cycles each produce a fresh Alert.
type Alert struct {
	Timestamp time.Time
	Kind      AlertKind
	Message   string
}

// ProcessSample is one row of the top-processes diagnostic snapshot
// captured when a CPU alert fires.
type ProcessSample struct {
	PID    int32
	Name   string
	CPUPct float64
}

// Thresholds is the alerting configuration, loaded once at startup and
// immutable for the process lifetime.
type Thresholds struct {
	CPUPct    int
	DiskPct   int
	MemPct    int
	NetKBps   int
	Hosts     []string
	Interface string
}

func (t Thresholds) Validate() error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"cpu_pct", t.CPUPct},
		{"disk_pct", t.DiskPct},
		{"mem_pct", t.MemPct},
	} {
		if p.value <= 0 || p.value > 100 {
			return fmt.Errorf("threshold %s must be within 1-100, got %d", p.name, p.value)
		}
	}
	if t.NetKBps <= 0 {
		return fmt.Errorf("threshold net_kbps must be positive, got %d", t.NetKBps)
	}
	if len(t.Hosts) == 0 {
		return errors.New("no hosts configured for connectivity checks")
	}
	if t.Interface == "" {
		return errors.New("network interface name must not be empty")
	}
	return nil
}
