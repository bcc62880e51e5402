// Command habitat computes SI-depth, SI-velocity, and cHSI rasters for a
// river reach and reports the usable habitat area above a threshold.
//
// Usage:
//
//	habitat depth.tif velocity.tif \
//	  -c habitat-suitability-grayling-spawn.csv \
//	  -t 0.6 \
//	  -o habitat-calculation
//
// Deployment concerns (log level/format, optional metrics endpoint, optional
// Kafka summary publishing) come from environment variables; see
// internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ecohydraulics/calculate-habitat-area/internal/adapter/curvecsv"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/adapter/geotiff"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/adapter/httpserver"
	kafkaadapter "github.com/Ecohydraulics/calculate-habitat-area/internal/adapter/kafka"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/config"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/observability"
	"github.com/Ecohydraulics/calculate-habitat-area/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	curvePath := flag.String("c", cfg.CurveFile, "CSV file with depth and velocity suitability curves")
	threshold := flag.Float64("t", cfg.Threshold, "cHSI threshold for usable habitat")
	outDir := flag.String("o", cfg.OutputDir, "output directory (created if absent)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] <depth-raster> <velocity-raster>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	params := pipeline.Params{
		DepthPath:    flag.Arg(0),
		VelocityPath: flag.Arg(1),
		CurvePath:    *curvePath,
		Threshold:    *threshold,
		OutputDir:    *outDir,
	}

	if err := run(cfg, params); err != nil {
		os.Exit(1)
	}
}

// run wires the adapters and executes one calculation; deferred cleanups fire
// on every exit path, including failures.
func run(cfg *config.Config, params pipeline.Params) error {
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := geotiff.NewStore(logger)
	curves := curvecsv.NewLoader(logger)

	// Summary publishing is feature-flagged via HABITAT_KAFKA_BROKERS /
	// HABITAT_KAFKA_ENABLED.
	var publisher pipeline.SummaryPublisher
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = p
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic)
	}

	runner := pipeline.New(curves, store, store, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := httpserver.NewServer(cfg.MetricsAddr, runner, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	summary, err := runner.Run(ctx, params)
	if err != nil {
		logger.Error("habitat run failed", "error", err)
		return err
	}

	fmt.Print(pipeline.RenderSummary(summary))
	return nil
}
