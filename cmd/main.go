package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var (
	// Version of the build. This is injected at build-time.
	buildString = "unknown"
	exit        = func() { os.Exit(1) }
)

func main() {
	// Initialise and load the config.
	ko, err := initConfig("config.sample.toml", "MONITOR_")
	if err != nil {
		panic(err.Error())
	}

	lo := initLogger(ko.MustString("app.log_level"))
	lo.Info("booting system monitor", "version", buildString)

	// A monitor with undefined thresholds cannot make sound alerting
	// decisions, so configuration errors are fatal before the loop.
	thresholds, err := initThresholds(ko)
	if err != nil {
		lo.Error("invalid monitor configuration", "error", err)
		exit()
	}

	sinks, err := initSinks(ko, lo)
	if err != nil {
		lo.Error("failed to init sinks", "error", err)
		exit()
	}
	defer sinks.Close()

	// Init the app.
	app := &App{
		lo:    lo,
		sinks: sinks,
		mon:   initMonitor(ko, lo, thresholds, sinks),
	}

	if err := app.sinks.WriteBanner(buildString, time.Now()); err != nil {
		lo.Error("failed to write startup banner", "error", err)
	}

	// Create a new context which is cancelled when `SIGINT`/`SIGTERM` is received.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Start the worker in background.
	var wg = &sync.WaitGroup{}
	wg.Add(1)
	go app.worker(ctx, wg)

	// Listen on the close channel indefinitely until a
	// `SIGINT` or `SIGTERM` is received.
	<-ctx.Done()
	// Cancel the context to gracefully shutdown and perform
	// any cleanup tasks.
	cancel()
	// Wait for all workers to finish.
	wg.Wait()

	app.lo.Info("shutting down")
}
