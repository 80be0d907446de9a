package models

import "testing"

func validThresholds() Thresholds {
	return Thresholds{
		CPUPct:    80,
		DiskPct:   80,
		MemPct:    80,
		NetKBps:   1000,
		Hosts:     []string{"8.8.8.8"},
		Interface: "eth0",
	}
}

func TestThresholdsValidate(t *testing.T) {
	if err := validThresholds().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"zero cpu threshold", func(t *Thresholds) { t.CPUPct = 0 }},
		{"cpu threshold over 100", func(t *Thresholds) { t.CPUPct = 101 }},
		{"negative disk threshold", func(t *Thresholds) { t.DiskPct = -1 }},
		{"zero mem threshold", func(t *Thresholds) { t.MemPct = 0 }},
		{"zero net threshold", func(t *Thresholds) { t.NetKBps = 0 }},
		{"no hosts", func(t *Thresholds) { t.Hosts = nil }},
		{"empty interface", func(t *Thresholds) { t.Interface = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validThresholds()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
