package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-qc-inspector/internal/config"
	"go-qc-inspector/internal/container"
	apperrors "go-qc-inspector/internal/errors"
	"go-qc-inspector/internal/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		err = apperrors.NewValidationError("invalid configuration", err)
		logger.WithError(err).Error("Failed to load config")
		os.Exit(apperrors.GetExitCode(err))
	}
	logger.SetLevel(cfg.LogLevel)

	c, err := container.NewContainer(cfg)
	if err != nil {
		err = apperrors.NewValidationError("failed to initialize container", err)
		logger.WithError(err).Error("Failed to initialize container")
		os.Exit(apperrors.GetExitCode(err))
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := c.Logger()
	log.WithFields(logrus.Fields{
		"inputs":  cfg.InputPaths,
		"output":  cfg.OutputDir,
		"slices":  cfg.Slices,
		"workers": cfg.Workers,
	}).Info("Starting extremes visualisation")

	start := time.Now()
	report, err := c.ExtremesService().Run(ctx)
	summary := c.Metrics().Fields()
	summary["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		log.WithFields(summary).WithError(err).Error("Extremes visualisation failed")
		c.Close()
		stop()
		os.Exit(apperrors.GetExitCode(err))
	}

	summary["rows"] = report.Rows
	summary["real_rows"] = report.RealRows
	summary["passed"] = report.Passed
	summary["output_csv"] = report.OutputCSV
	log.WithFields(summary).Info("Extremes visualisation finished")
}
