package main

import (
	"context"
	"sync"

	"golang.org/x/exp/slog"

	"github.com/V-Kubarev/system-monitor-telegram/internal/monitor"
	"github.com/V-Kubarev/system-monitor-telegram/internal/sink"
)

type App struct {
	lo *slog.Logger

	mon   *monitor.Monitor
	sinks *sink.Sinks
}

// worker runs the sampling loop until the context is cancelled.
func (app *App) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	app.mon.Run(ctx)
}
