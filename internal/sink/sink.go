package sink

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/V-Kubarev/system-monitor-telegram/pkg/models"
)

// TimeLayout is the wall-clock format used in every log line. The alert
// log is tailed line-by-line by the external notifier, so this format
// is a compatibility contract, not a cosmetic choice.
const TimeLayout = "2006-01-02 15:04:05"

// LineSink is an append-only log file. Each record goes out in a single
// write call so the file stays safely tailable; existing content is
// never truncated or rewritten.
type LineSink struct {
	mu sync.Mutex
	f  *os.File
}

func OpenLineSink(path string) (*LineSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening sink %q: %w", path, err)
	}
	return &LineSink{f: f}, nil
}

// WriteLine appends one record with a trailing newline.
func (s *LineSink) WriteLine(line string) error {
	return s.write(line + "\n")
}

// WriteBlock appends a pre-formatted multi-line block verbatim.
func (s *LineSink) WriteBlock(block string) error {
	return s.write(block)
}

func (s *LineSink) write(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.WriteString(raw); err != nil {
		return fmt.Errorf("appending to %q: %w", s.f.Name(), err)
	}
	return nil
}

func (s *LineSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// Sinks groups the three monitor outputs: the per-cycle metrics log,
// the alert log and the CPU-spike diagnostic log.
type Sinks struct {
	lo *slog.Logger

	metrics *LineSink
	alerts  *LineSink
	diag    *LineSink
}

type Opts struct {
	MetricsPath     string
	AlertsPath      string
	DiagnosticsPath string
}

func New(lo *slog.Logger, opts Opts) (*Sinks, error) {
	metrics, err := OpenLineSink(opts.MetricsPath)
	if err != nil {
		return nil, err
	}
	alerts, err := OpenLineSink(opts.AlertsPath)
	if err != nil {
		metrics.Close()
		return nil, err
	}
	diag, err := OpenLineSink(opts.DiagnosticsPath)
	if err != nil {
		metrics.Close()
		alerts.Close()
		return nil, err
	}
	return &Sinks{lo: lo, metrics: metrics, alerts: alerts, diag: diag}, nil
}

// WriteSample appends one metrics line with a fixed field order.
func (s *Sinks) WriteSample(sample models.Sample) error {
	line := fmt.Sprintf("%s | CPU: %d%% | Disk: %d%% | Mem: %d%% | Net: %d KB/s | Connectivity: %s",
		sample.Timestamp.Format(TimeLayout),
		sample.CPUPct, sample.DiskPct, sample.MemPct, sample.NetKBps,
		sample.Connectivity)
	return s.metrics.WriteLine(line)
}

// WriteAlert appends one alert line in the tail-and-forward format.
func (s *Sinks) WriteAlert(a models.Alert) error {
	line := fmt.Sprintf("[%s] %s ALERT: %s", a.Timestamp.Format(TimeLayout), a.Kind, a.Message)
	return s.alerts.WriteLine(line)
}

// WriteDiagnostic appends one top-processes block: a header, one row
// per process and a blank separator line.
func (s *Sinks) WriteDiagnostic(ts time.Time, procs []models.ProcessSample) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] top processes by CPU:\n", ts.Format(TimeLayout))
	for _, p := range procs {
		fmt.Fprintf(&b, "  PID %-7d %5.1f%%  %s\n", p.PID, p.CPUPct, p.Name)
	}
	b.WriteString("\n")
	return s.diag.WriteBlock(b.String())
}

// WriteBanner marks a monitor start in the metrics and alert logs.
func (s *Sinks) WriteBanner(version string, ts time.Time) error {
	banner := fmt.Sprintf("=== monitoring started at %s (version %s) ===", ts.Format(TimeLayout), version)
	if err := s.metrics.WriteLine(banner); err != nil {
		return err
	}
	return s.alerts.WriteLine(banner)
}

func (s *Sinks) Close() {
	for _, ls := range []*LineSink{s.metrics, s.alerts, s.diag} {
		if err := ls.Close(); err != nil {
			s.lo.Error("failed to close sink", "error", err)
		}
	}
}
