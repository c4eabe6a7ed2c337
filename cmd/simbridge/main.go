// Package main runs the reference simulation with the command bridge
// attached: one tick loop advances the simulation and serves the pipe.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge"
	"github.com/cory-johannsen/simbridge/internal/bridge/dispatch"
	"github.com/cory-johannsen/simbridge/internal/bridge/nav"
	"github.com/cory-johannsen/simbridge/internal/config"
	"github.com/cory-johannsen/simbridge/internal/game/engine"
	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/observability"
	"github.com/cory-johannsen/simbridge/internal/server"
	"github.com/cory-johannsen/simbridge/internal/storage/savestore"
)

func main() {
	fs := pflag.NewFlagSet("simbridge", pflag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("simbridge stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	start := time.Now()

	scenario, err := world.LoadScenarioFromFile(cfg.Simulation.Scenario)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	logger.Info("scenario loaded",
		zap.String("path", cfg.Simulation.Scenario),
		zap.String("name", scenario.Name),
		zap.Int("objects", len(scenario.Objects)),
	)

	var saves engine.SlotStore
	if cfg.Simulation.SavePath != "" {
		store, err := savestore.Open(cfg.Simulation.SavePath)
		if err != nil {
			return fmt.Errorf("opening save store: %w", err)
		}
		defer store.Close()
		saves = store
		logger.Info("save store opened", zap.String("path", store.Path()))
	}

	eng, err := engine.New(scenario, engine.Options{
		Logger:                 logger.Named("engine"),
		Saves:                  saves,
		ScriptInstructionLimit: cfg.Simulation.ScriptInstructionLimit,
	})
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	defer eng.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	bridgeLogger := logger.Named("bridge")
	dispatcher, err := dispatch.New(eng, dispatch.Options{
		Navigation: nav.Config{
			MaxSteps:    cfg.Navigation.MaxSteps,
			WaitTimeout: cfg.Navigation.WaitTimeout,
			WaitStep:    cfg.Navigation.WaitStep,
		},
		Logger:  bridgeLogger,
		Metrics: metrics,
	})
	if err != nil {
		return fmt.Errorf("building dispatcher: %w", err)
	}

	controller := bridge.New(dispatcher, bridge.Options{
		Enabled:            cfg.Bridge.Enabled,
		InputPipe:          cfg.Bridge.InputPipe,
		OutputPath:         cfg.Bridge.OutputPath,
		MaxCommandsPerPoll: cfg.Bridge.MaxCommandsPerPoll,
		Logger:             bridgeLogger,
		Metrics:            metrics,
	})
	if err := controller.Init(); err != nil {
		logger.Warn("bridge pipe unavailable, retrying every tick", zap.Error(err))
	}
	defer controller.Exit()

	// SIGUSR1 toggles polling; the flip happens on the tick goroutine.
	toggles := make(chan os.Signal, 1)
	signal.Notify(toggles, syscall.SIGUSR1)
	defer signal.Stop(toggles)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("simulation", server.NewTickService(cfg.Simulation.TickInterval, func(ctx context.Context) bool {
		select {
		case <-toggles:
			controller.SetEnabled(!controller.Enabled())
		default:
		}
		eng.Tick()
		controller.ProcessBackground(ctx)
		return !eng.Quit()
	}, logger))

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		lifecycle.Add("metrics", &server.FuncService{
			StartFn: func() error {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			},
			StopFn: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					logger.Warn("metrics shutdown", zap.Error(err))
				}
			},
		})
	}

	logger.Info("simbridge initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Bool("bridge_enabled", controller.Enabled()),
		zap.String("input_pipe", cfg.Bridge.InputPipe),
		zap.String("output_path", cfg.Bridge.OutputPath),
		zap.String("metrics_addr", cfg.Metrics.Addr),
	)

	return lifecycle.Run(context.Background())
}
