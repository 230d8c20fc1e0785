package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/machinesim/internal/config"
	"codeberg.org/mutker/machinesim/internal/errors"
	"codeberg.org/mutker/machinesim/internal/logger"
	"codeberg.org/mutker/machinesim/internal/machine"
	"codeberg.org/mutker/machinesim/internal/panel"
	"codeberg.org/mutker/machinesim/internal/pid"
	"codeberg.org/mutker/machinesim/internal/server"
	"codeberg.org/mutker/machinesim/internal/telemetry"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

var (
	cfg        *config.Config
	ctl        *panel.Panel
	collector  telemetry.Collector
	errFactory = errors.New()
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Msg("Config loaded")

	collector, err = telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.TelemetryDB,
	}, logger.Default())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}

	ctl = panel.New(panel.Config{
		Seed:        cfg.Seed,
		HistorySize: cfg.HistorySize,
	}, collector)
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.Autostart {
		ctl.Start()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: server.NewRouter(server.Dependencies{Panel: ctl}),
	}
	go serveAPI(srv, cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}

	cleanup(srv)
}

func loop(ctx context.Context) error {
	if cfg.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, cfg.Interval)
	}

	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().
		Str("interval", interval.String()).
		Str("listen", cfg.Listen).
		Msg("Simulation running")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := ctl.Tick(ctx)
			if err != nil {
				// A telemetry failure must not stall the simulation.
				logger.Warn().Err(err).Msg("failed to record tick")
			}
			logTick(snap)
		}
	}
}

func serveAPI(srv *http.Server, cancel context.CancelFunc) {
	logger.Info().Str("listen", srv.Addr).Msg("Control API listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.ErrorWithCode(errFactory.Wrap(errors.ErrServeAPI, err)).Send()
		cancel()
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(srv *http.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down control API")
	}
	if err := collector.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close telemetry")
	}
	if err := pid.Remove(); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}
	logger.Info().Msg("Exiting...")
}

func logTick(snap machine.Snapshot) {
	logger.Info().
		Str("state", snap.State.String()).
		Bool("running", snap.Running).
		Float64("temperature", snap.Temperature).
		Float64("voltage", snap.Voltage).
		Float64("speed", snap.Speed).
		Msg("")

	logger.Debug().
		Str("message", snap.Message).
		Msg("")
}
