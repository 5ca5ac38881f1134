package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/auction-roster/internal/app/roster"
	"github.com/preston-bernstein/auction-roster/internal/config"
	"github.com/preston-bernstein/auction-roster/internal/logging"
	"github.com/preston-bernstein/auction-roster/internal/metrics"
	"github.com/preston-bernstein/auction-roster/internal/store"
)

const shutdownTimeout = 5 * time.Second

var metricsSetup = metrics.Setup

func runConvert(cmd *cobra.Command, root *rootOptions, opts *jobOptions) error {
	return withService(cmd, root, opts, func(ctx context.Context, svc *roster.Service) error {
		summary, err := svc.Convert(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted %d players\n", summary.Accepted)
		return nil
	})
}

func runMerge(cmd *cobra.Command, root *rootOptions, opts *jobOptions) error {
	return withService(cmd, root, opts, func(ctx context.Context, svc *roster.Service) error {
		summary, err := svc.Merge(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d new players. Total: %d\n", summary.Accepted, summary.Total)
		return nil
	})
}

// withService resolves configuration, wires telemetry and mirrors, runs fn,
// then flushes metrics.
func withService(cmd *cobra.Command, root *rootOptions, opts *jobOptions, fn func(context.Context, *roster.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(cmd, root, opts)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
		Output:  cmd.ErrOrStderr(),
	})

	recorder, metricsShutdown := buildMetrics(ctx, cfg, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsShutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown failed", "err", err)
		}
	}()

	mirrors, closeMirrors, err := buildMirrors(ctx, cfg.Export, logger)
	if err != nil {
		return err
	}
	defer closeMirrors()

	svc, err := roster.NewService(cfg, logger, recorder, mirrors...)
	if err != nil {
		return err
	}

	runErr := fn(ctx, svc)
	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			logger.Warn("metrics textfile write failed", logging.FieldPath, path, "err", err)
		}
	}
	return runErr
}

// resolveConfig layers env, then the optional YAML file, then explicit flags.
func resolveConfig(cmd *cobra.Command, root *rootOptions, opts *jobOptions) (config.Config, error) {
	cfg, err := config.LoadFile(root.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if root.logLevel != "" {
		cfg.Logging.Level = root.logLevel
	}
	if root.logFormat != "" {
		cfg.Logging.Format = root.logFormat
	}
	if flags.Changed("input") {
		cfg.InputPath = opts.input
	}
	if flags.Changed("output") {
		cfg.OutputPath = opts.output
	}
	if flags.Changed("report") {
		cfg.ReportPath = opts.report
	}
	if flags.Changed("classification") {
		cfg.Roster.Classification = opts.classification
	}
	if flags.Changed("id-format") {
		cfg.Roster.IDFormat = opts.idFormat
	}
	if flags.Changed("strict") {
		cfg.Roster.StrictCategoryMatching = opts.strict
	}
	if flags.Changed("default-base-price") {
		cfg.Roster.DefaultBasePrice = opts.defaultBasePrice
	}
	if flags.Changed("sqlite") {
		cfg.Export.SQLitePath = opts.sqlitePath
	}
	if flags.Changed("postgres") {
		cfg.Export.PostgresURL = opts.postgresURL
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.TextfilePath = opts.metricsTextfile
		cfg.Metrics.Enabled = opts.metricsTextfile != "" || cfg.Metrics.Enabled
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func buildMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger) (*metrics.Recorder, func(context.Context) error) {
	noop := func(context.Context) error { return nil }
	rec, shutdown, err := metricsSetup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), noop
	}
	if shutdown == nil {
		shutdown = noop
	}
	return rec, shutdown
}

// buildMirrors opens the configured database mirrors. The returned close
// function releases any pools.
func buildMirrors(ctx context.Context, cfg config.ExportConfig, logger *slog.Logger) ([]roster.Mirror, func(), error) {
	var mirrors []roster.Mirror
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.SQLitePath != "" {
		mirrors = append(mirrors, store.NewSQLiteMirror(cfg.SQLitePath))
		logger.Debug("sqlite mirror enabled", logging.FieldPath, cfg.SQLitePath)
	}
	if cfg.PostgresURL != "" {
		pg, err := store.NewPostgresMirror(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, closeAll, fmt.Errorf("postgres mirror: %w", err)
		}
		mirrors = append(mirrors, pg)
		closers = append(closers, pg.Close)
		logger.Debug("postgres mirror enabled")
	}
	return mirrors, closeAll, nil
}
