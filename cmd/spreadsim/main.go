// Command spreadsim runs a spread-sim scenario file through the engine
// and writes the resulting output file, per spec.md §6's minimal CLI
// contract: --scenario, --out, --padding, and a mode flag. --config
// loads the rest of the run's behavior (deadline, dashboard) from a
// layered YAML file; flags always take precedence over it.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spreadsim/engine"
	"spreadsim/liveview"
	"spreadsim/runconfig"
	"spreadsim/serial"
	"spreadsim/telemetry"
	"spreadsim/wire"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("spreadsim", flag.ContinueOnError)
	scenarioPath := fs.String("scenario", "", "path to the scenario JSON file")
	outPath := fs.String("out", "", "path to write the output JSON file")
	configPath := fs.String("config", "", "optional YAML run config")
	padding := fs.Int("padding", 0, "halo padding, in cells")
	rocket := fs.Bool("rocket", false, "run with the concurrent patch-parallel engine (default)")
	slug := fs.Bool("slug", false, "run with the single-threaded serial reference engine")
	starship := fs.Bool("starship", false, "run with the ordered concurrent engine")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenarioPath == "" || *outPath == "" {
		return fmt.Errorf("spreadsim: --scenario and --out are required")
	}

	cfg := &runconfig.RunConfig{Padding: *padding, Mode: "rocket"}
	if *configPath != "" {
		loaded, err := runconfig.FromYaml(*configPath)
		if err != nil {
			return fmt.Errorf("spreadsim: loading config: %w", err)
		}
		cfg = loaded
	}
	if *padding > 0 {
		cfg.Padding = *padding
	}
	if *starship {
		cfg.Mode = "starship"
	}

	logger := telemetry.NewLogger(telemetry.LoggerConfig{Level: telemetry.LogLevelInfo})
	metrics := telemetry.NewMetrics()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", err)
			}
		}()
	}

	data, err := os.ReadFile(*scenarioPath)
	if err != nil {
		return fmt.Errorf("spreadsim: reading scenario: %w", err)
	}
	scenario, err := wire.ParseScenario(data)
	if err != nil {
		return fmt.Errorf("spreadsim: parsing scenario: %w", err)
	}

	ctx, cancel, err := cfg.WithDeadline(context.Background())
	if err != nil {
		return fmt.Errorf("spreadsim: %w", err)
	}
	defer cancel()

	if cfg.LiveView {
		updates := make(chan liveview.Tick)
		defer close(updates)
		dashboard := liveview.NewDashboard(ctx, updates)
		addr := cfg.LiveViewAddr
		if addr == "" {
			addr = ":8090"
		}
		go func() {
			if err := http.ListenAndServe(addr, dashboard.Handler()); err != nil {
				logger.Error("dashboard server stopped", err)
			}
		}()
	}

	var result struct {
		data []byte
		err  error
	}

	switch {
	case *slug:
		o := serial.Run(scenario, nil)
		result.data, result.err = wire.RenderOutput(o)
	default:
		mode := cfg.EngineMode()
		if *rocket {
			mode = engine.ModeRocket
		}
		o, runErr := engine.Run(ctx, scenario, cfg.Padding, mode, nil, engine.WithMetrics(metrics))
		if runErr != nil {
			return fmt.Errorf("spreadsim: %w", runErr)
		}
		result.data, result.err = wire.RenderOutput(o)
	}
	if result.err != nil {
		return fmt.Errorf("spreadsim: rendering output: %w", result.err)
	}

	if err := os.WriteFile(*outPath, result.data, 0o644); err != nil {
		return fmt.Errorf("spreadsim: writing output: %w", err)
	}

	logger.WithRun(scenario.Name).Info("run complete")
	return nil
}
