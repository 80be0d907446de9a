package connectivity

import (
	"context"
	"io"
	"testing"
	"time"

	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProberDefaults(t *testing.T) {
	p := NewProber(testLogger(), Opts{Hosts: []string{"8.8.8.8"}})
	if p.opts.Timeout != defaultTimeout {
		t.Errorf("expected default timeout %s, got %s", defaultTimeout, p.opts.Timeout)
	}
	if p.opts.Count != defaultCount {
		t.Errorf("expected default count %d, got %d", defaultCount, p.opts.Count)
	}
}

func TestCheckReportsEveryHostInOrder(t *testing.T) {
	// TEST-NET-3 addresses are guaranteed unreachable; the probe must
	// still report one result per host, in configured order.
	hosts := []string{"203.0.113.1", "203.0.113.2"}
	p := NewProber(testLogger(), Opts{
		Hosts:   hosts,
		Timeout: 100 * time.Millisecond,
	})

	results := p.Check(context.Background())
	if len(results) != len(hosts) {
		t.Fatalf("expected %d results, got %d", len(hosts), len(results))
	}
	for i, r := range results {
		if r.Host != hosts[i] {
			t.Errorf("result %d: expected host %s, got %s", i, hosts[i], r.Host)
		}
		if r.OK {
			t.Errorf("TEST-NET host %s reported reachable", r.Host)
		}
	}
}

func TestCheckUnresolvableHost(t *testing.T) {
	p := NewProber(testLogger(), Opts{
		Hosts:   []string{"no-such-host.invalid"},
		Timeout: 100 * time.Millisecond,
	})

	results := p.Check(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].OK {
		t.Error("unresolvable host reported reachable")
	}
}
