package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/cell-simulator/core"
	"github.com/signalsfoundry/cell-simulator/internal/export"
	"github.com/signalsfoundry/cell-simulator/internal/logging"
	"github.com/signalsfoundry/cell-simulator/internal/observability"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a JSON or YAML scenario file (defaults apply when empty)")
	terminals := flag.Int("terminals", 0, "override the number of terminals (0 = keep scenario value)")
	steps := flag.Int("steps", 0, "override the number of simulation steps (0 = keep scenario value)")
	scheduler := flag.String("scheduler", "", "override the scheduler: equal-share or proportional-fair")
	seed := flag.Uint64("seed", 0, "master random seed (0 = package default)")
	outDir := flag.String("out", "output", "directory for CSV and plot output")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (empty = disabled)")
	parallelLinks := flag.Bool("parallel-links", false, "fan the link phase out across goroutines")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	cfg := core.DefaultConfig()
	if *scenarioPath != "" {
		cfg, err = core.LoadScenario(*scenarioPath)
		if err != nil {
			log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if *terminals > 0 {
		cfg.NumTerminals = *terminals
	}
	if *steps > 0 {
		cfg.SimSteps = *steps
	}
	if *scheduler != "" {
		cfg.Scheduler = *scheduler
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *parallelLinks {
		cfg.ParallelLinkPhase = true
	}

	engine, err := core.NewSimulationEngine(cfg, log)
	if err != nil {
		log.Error(ctx, "invalid simulation configuration", logging.String("error", err.Error()))
		os.Exit(1)
	}

	var collector *observability.SimulationCollector
	var metricsSrv *http.Server
	if *metricsAddr != "" {
		collector, err = observability.NewSimulationCollector(nil)
		if err != nil {
			log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
			os.Exit(1)
		}
		engine.RegisterStepListener(collector.ObserveStep)
		metricsSrv = serveMetrics(*metricsAddr, collector, log)
	}

	tracer := otel.Tracer("cell-simulator")
	runCtx, span := tracer.Start(ctx, "simulation.run", trace.WithAttributes(
		attribute.Int("sim.terminals", cfg.NumTerminals),
		attribute.Int("sim.steps", cfg.SimSteps),
		attribute.String("sim.scheduler", cfg.Scheduler),
		attribute.Float64("sim.total_bandwidth_hz", cfg.TotalBandwidthHz),
	))

	collector.MarkRunStart()
	err = engine.Run(runCtx)
	span.End()
	if err != nil {
		log.Error(ctx, "simulation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	reports, err := engine.Results()
	if err != nil {
		log.Error(ctx, "results unavailable", logging.String("error", err.Error()))
		os.Exit(1)
	}

	for _, rep := range reports {
		fmt.Printf("↳ %-6s dist=%5.1f m  mean tput=%8.2f Mbps  median latency=%7.3f ms  mean SNR=%5.1f dB\n",
			rep.TerminalID, rep.DistanceM, rep.MeanThroughputMbps, rep.MedianLatencyMs, rep.MeanSNRdB)
	}

	exporter := export.New(*outDir, log)
	if err := exporter.Export(ctx, reports); err != nil {
		log.Error(ctx, "export failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func serveMetrics(addr string, collector *observability.SimulationCollector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
