package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	flag "github.com/spf13/pflag"
	"golang.org/x/exp/slog"

	"github.com/V-Kubarev/system-monitor-telegram/internal/connectivity"
	"github.com/V-Kubarev/system-monitor-telegram/internal/metrics"
	"github.com/V-Kubarev/system-monitor-telegram/internal/monitor"
	"github.com/V-Kubarev/system-monitor-telegram/internal/sink"
	"github.com/V-Kubarev/system-monitor-telegram/pkg/models"
)

// initConfig loads config to `ko`
// object.
func initConfig(cfgDefault, envPrefix string) (*koanf.Koanf, error) {
	var (
		ko = koanf.New(".")
		f  = flag.NewFlagSet("monitor", flag.ContinueOnError)
	)

	// Configure Flags.
	f.Usage = func() {
		fmt.Println(f.FlagUsages())
		os.Exit(0)
	}

	// Register `--config` flag.
	cfgPath := f.String("config", cfgDefault, "Path to a config file to load.")

	// Parse and Load Flags.
	err := f.Parse(os.Args[1:])
	if err != nil {
		return nil, err
	}

	// Load the config file from the path provided. TOML is the
	// default; `.yaml`/`.yml` files load with the YAML parser.
	err = ko.Load(file.Provider(*cfgPath), configParser(*cfgPath))
	if err != nil {
		return nil, err
	}

	// Load environment variables if the key is given
	// and merge into the loaded config.
	if envPrefix != "" {
		err = ko.Load(env.Provider(envPrefix, ".", func(s string) string {
			return strings.Replace(strings.ToLower(
				strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
		}), nil)
		if err != nil {
			return nil, err
		}
	}

	return ko, nil
}

func configParser(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// initLogger initialies a logger.
func initLogger(lvl string) *slog.Logger {
	opts := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	}
	if lvl == "debug" {
		opts.Level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &opts).WithAttrs([]slog.Attr{slog.String("component", "system-monitor")}))
}

// initThresholds loads and validates the alerting thresholds, the probe
// host list and the monitored network interface.
func initThresholds(ko *koanf.Koanf) (models.Thresholds, error) {
	t := models.Thresholds{
		CPUPct:    ko.MustInt("thresholds.cpu_pct"),
		DiskPct:   ko.MustInt("thresholds.disk_pct"),
		MemPct:    ko.MustInt("thresholds.mem_pct"),
		NetKBps:   ko.MustInt("thresholds.net_kbps"),
		Hosts:     ko.Strings("connectivity.hosts"),
		Interface: ko.MustString("monitor.interface"),
	}

	if err := t.Validate(); err != nil {
		return models.Thresholds{}, err
	}

	return t, nil
}

// initSinks opens the three append-only log files.
func initSinks(ko *koanf.Koanf, lo *slog.Logger) (*sink.Sinks, error) {
	return sink.New(lo, sink.Opts{
		MetricsPath:     ko.MustString("logs.metrics_path"),
		AlertsPath:      ko.MustString("logs.alerts_path"),
		DiagnosticsPath: ko.MustString("logs.diagnostics_path"),
	})
}

// initMonitor wires the collectors, the connectivity prober and the
// sinks into the sampling loop.
func initMonitor(ko *koanf.Koanf, lo *slog.Logger, thresholds models.Thresholds, sinks *sink.Sinks) *monitor.Monitor {
	window := ko.MustDuration("monitor.sample_window")

	collectors := monitor.Collectors{
		CPU:  &metrics.CPUCollector{Window: window},
		Disk: &metrics.DiskCollector{Path: ko.String("monitor.disk_path")},
		Mem:  &metrics.MemCollector{},
		Net:  &metrics.NetCollector{Interface: thresholds.Interface, Window: window},
	}

	prober := connectivity.NewProber(lo, connectivity.Opts{
		Hosts:      thresholds.Hosts,
		Timeout:    ko.MustDuration("connectivity.timeout"),
		Count:      ko.Int("connectivity.count"),
		Privileged: ko.Bool("connectivity.privileged"),
	})

	return monitor.New(lo, monitor.Opts{
		Interval:   ko.MustDuration("app.poll_interval"),
		Thresholds: thresholds,
		TopProcs:   ko.Int("monitor.top_procs"),
	}, collectors, prober, metrics.ProcessSnapshot{}, sinks)
}
