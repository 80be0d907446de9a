package connectivity

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"golang.org/x/exp/slog"
)

const (
	defaultTimeout = 2 * time.Second
	defaultCount   = 1
)

type Opts struct {
	Hosts   []string
	Timeout time.Duration
	Count   int
	// Privileged switches to raw ICMP sockets; the default UDP mode
	// works without CAP_NET_RAW.
	Privileged bool
}

// Result is the outcome of probing one host. Each host passes or fails
// independently of the others.
type Result struct {
	Host string
	OK   bool
	RTT  time.Duration
}

// Prober checks reachability of a fixed set of hosts with a single
// bounded-timeout echo probe per host.
type Prober struct {
	lo   *slog.Logger
	opts Opts
}

func NewProber(lo *slog.Logger, opts Opts) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Count <= 0 {
		opts.Count = defaultCount
	}
	return &Prober{lo: lo, opts: opts}
}

// Check probes every configured host in order. An unreachable host
// never prevents probing the rest.
func (p *Prober) Check(ctx context.Context) []Result {
	results := make([]Result, 0, len(p.opts.Hosts))
	for _, host := range p.opts.Hosts {
		r := Result{Host: host}
		rtt, err := p.probe(ctx, host)
		if err != nil {
			p.lo.Debug("host unreachable", "host", host, "error", err)
		} else {
			r.OK = true
			r.RTT = rtt
			p.lo.Debug("host reachable", "host", host, "rtt", rtt)
		}
		results = append(results, r)
	}
	return results
}

func (p *Prober) probe(ctx context.Context, host string) (time.Duration, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return 0, fmt.Errorf("resolving %q: %w", host, err)
	}
	pinger.Count = p.opts.Count
	pinger.Timeout = p.opts.Timeout
	pinger.SetPrivileged(p.opts.Privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return 0, fmt.Errorf("pinging %q: %w", host, err)
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, fmt.Errorf("no reply from %q within %s", host, p.opts.Timeout)
	}
	return stats.AvgRtt, nil
}
