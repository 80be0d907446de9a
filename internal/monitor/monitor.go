package monitor

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/V-Kubarev/system-monitor-telegram/internal/alert"
	"github.com/V-Kubarev/system-monitor-telegram/internal/connectivity"
	"github.com/V-Kubarev/system-monitor-telegram/internal/metrics"
	"github.com/V-Kubarev/system-monitor-telegram/pkg/models"
)

type state int

const (
	stateIdle state = iota
	stateCollecting
	stateEvaluating
	statePersisting
	stateSleeping
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateCollecting:
		return "collecting"
	case stateEvaluating:
		return "evaluating"
	case statePersisting:
		return "persisting"
	case stateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// Prober checks reachability of the configured hosts.
type Prober interface {
	Check(ctx context.Context) []connectivity.Result
}

// Snapshotter captures the top-n processes by CPU share for the
// CPU-spike diagnostic log.
type Snapshotter interface {
	TopCPU(ctx context.Context, n int) ([]models.ProcessSample, error)
}

// Sink receives the outputs of one cycle.
type Sink interface {
	WriteSample(models.Sample) error
	WriteAlert(models.Alert) error
	WriteDiagnostic(time.Time, []models.ProcessSample) error
}

// Collectors holds one collector per metric dimension.
type Collectors struct {
	CPU  metrics.Collector
	Disk metrics.Collector
	Mem  metrics.Collector
	Net  metrics.Collector
}

type Opts struct {
	// Interval is the spacing from the end of one cycle to the start
	// of the next. Collection latency is deliberately not subtracted.
	Interval   time.Duration
	Thresholds models.Thresholds
	// TopProcs is the number of processes captured per diagnostic block.
	TopProcs int
}

// Monitor drives the collect→evaluate→persist→sleep loop. A single
// goroutine owns the loop: cycle N+1 never starts before cycle N has
// finished persisting.
type Monitor struct {
	lo   *slog.Logger
	opts Opts

	collectors Collectors
	prober     Prober
	procs      Snapshotter
	sink       Sink

	state state
}

func New(lo *slog.Logger, opts Opts, collectors Collectors, prober Prober, procs Snapshotter, sink Sink) *Monitor {
	if opts.TopProcs <= 0 {
		opts.TopProcs = 5
	}
	return &Monitor{
		lo:         lo,
		opts:       opts,
		collectors: collectors,
		prober:     prober,
		procs:      procs,
		sink:       sink,
		state:      stateIdle,
	}
}

// Run loops until ctx is cancelled. The in-flight cycle always runs to
// completion; cancellation is only observed while sleeping.
func (m *Monitor) Run(ctx context.Context) {
	m.lo.Info("starting monitor loop", "interval", m.opts.Interval)
	for {
		m.RunCycle(ctx)

		m.setState(stateSleeping)
		t := time.NewTimer(m.opts.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			m.lo.Info("quitting monitor loop")
			return
		case <-t.C:
		}
		m.setState(stateIdle)
	}
}

// RunCycle performs one collect→evaluate→persist pass and returns the
// sample that was recorded.
func (m *Monitor) RunCycle(ctx context.Context) models.Sample {
	m.setState(stateCollecting)
	sample, down := m.collect(ctx)

	m.setState(stateEvaluating)
	alerts := alert.Evaluate(sample, m.opts.Thresholds)
	for _, host := range down {
		alerts = append(alerts, alert.HostAlert(sample.Timestamp, host))
	}

	m.setState(statePersisting)
	m.persist(ctx, sample, alerts)
	return sample
}

// collect fans the independent probes out and joins them; the sample is
// complete only once every probe has returned or defaulted. It also
// returns the hosts that failed their reachability check this cycle.
func (m *Monitor) collect(ctx context.Context) (models.Sample, []string) {
	sample := models.Sample{
		Timestamp:    time.Now(),
		Connectivity: models.ConnectivityOK,
	}
	var down []string

	// Each goroutine writes a distinct field, so the only
	// synchronisation needed is the join itself.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sample.CPUPct = m.value(gctx, m.collectors.CPU)
		return nil
	})
	g.Go(func() error {
		sample.DiskPct = m.value(gctx, m.collectors.Disk)
		return nil
	})
	g.Go(func() error {
		sample.MemPct = m.value(gctx, m.collectors.Mem)
		return nil
	})
	g.Go(func() error {
		sample.NetKBps = m.value(gctx, m.collectors.Net)
		return nil
	})
	g.Go(func() error {
		for _, r := range m.prober.Check(gctx) {
			if !r.OK {
				down = append(down, r.Host)
			}
		}
		if len(down) > 0 {
			sample.Connectivity = models.ConnectivityFAIL
		}
		return nil
	})
	g.Wait()

	return sample, down
}

// value collects one dimension, substituting the documented default of
// 0 when the probe fails. A failed probe degrades the reading for this
// cycle only.
func (m *Monitor) value(ctx context.Context, c metrics.Collector) int {
	v, err := c.Collect(ctx)
	if err != nil {
		m.lo.Warn("collector failed, using default", "collector", c.Name(), "error", err)
		return 0
	}
	return v
}

// persist writes the sample and its alerts. Sink failures are logged
// and swallowed: the next cycle still runs.
func (m *Monitor) persist(ctx context.Context, sample models.Sample, alerts []models.Alert) {
	if err := m.sink.WriteSample(sample); err != nil {
		m.lo.Error("failed to write metrics line", "error", err)
	}
	for _, a := range alerts {
		if err := m.sink.WriteAlert(a); err != nil {
			m.lo.Error("failed to write alert line", "kind", a.Kind, "error", err)
		}
		if a.Kind == models.KindCPU {
			m.captureDiagnostics(ctx, a.Timestamp)
		}
	}
}

func (m *Monitor) captureDiagnostics(ctx context.Context, ts time.Time) {
	procs, err := m.procs.TopCPU(ctx, m.opts.TopProcs)
	if err != nil {
		m.lo.Error("failed to capture process snapshot", "error", err)
		return
	}
	if err := m.sink.WriteDiagnostic(ts, procs); err != nil {
		m.lo.Error("failed to write diagnostic block", "error", err)
	}
}

func (m *Monitor) setState(s state) {
	m.state = s
	m.lo.Debug("monitor state change", "state", s.String())
}
