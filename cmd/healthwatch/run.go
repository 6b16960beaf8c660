package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/melih/healthwatch/internal/adapters/docker"
	httpadapter "github.com/melih/healthwatch/internal/adapters/http"
	"github.com/melih/healthwatch/internal/adapters/source"
	"github.com/melih/healthwatch/internal/adapters/statefile"
	"github.com/melih/healthwatch/internal/adapters/telegram"
	"github.com/melih/healthwatch/internal/config"
	"github.com/melih/healthwatch/internal/core/monitor"
	"github.com/melih/healthwatch/internal/core/ports"
	"github.com/melih/healthwatch/internal/logging"
	"github.com/melih/healthwatch/internal/metrics"
)

const (
	dockerPingTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// loadConfig resolves configuration and installs the logger it asks for.
func loadConfig(flags globalFlags) (*config.Config, *slog.Logger, error) {
	// Only an explicitly chosen env file has to exist.
	if err := config.LoadEnvFile(flags.envFile, flags.envFile != ".env"); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if flags.debug {
		level = logging.LevelDebug
	}
	logger, err := logging.ConfigureWriter(os.Stderr, level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newNotifier(cfg *config.Config, logger *slog.Logger) ports.Notifier {
	if !cfg.NotificationsEnabled() {
		logger.Warn("Telegram bot token or chat ID not set, notifications are disabled.")
		return telegram.NewLogOnly(logger)
	}
	return telegram.New(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.NotifyTimeout(), logger)
}

func newNameSource(cfg *config.Config, notifier ports.Notifier, logger *slog.Logger) *source.Fallback {
	var local, remote source.Source
	if cfg.Source.LocalPath != "" {
		local = source.NewLocalFile(cfg.Source.LocalPath)
	}
	switch {
	case cfg.Source.Git.Repo != "":
		remote = source.NewGit(cfg.Source.Git.Repo, cfg.Source.Git.Ref, cfg.Source.Git.Path, cfg.FetchTimeout(), logger)
	case cfg.Source.URL != "":
		remote = source.NewHTTP(cfg.Source.URL, cfg.FetchTimeout())
	}
	return source.NewFallback(local, remote, notifier, logger)
}

// buildMonitor wires the collaborators. The Docker daemon must be reachable.
func buildMonitor(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*monitor.Monitor, func(), error) {
	inspector, err := docker.NewAdapter()
	if err != nil {
		return nil, nil, err
	}
	if err := inspector.Ping(ctx, dockerPingTimeout); err != nil {
		inspector.Close()
		return nil, nil, err
	}

	notifier := newNotifier(cfg, logger)
	mon := monitor.New(newNameSource(cfg, notifier, logger), inspector, notifier, statefile.New(cfg.StatePath),
		monitor.WithLogger(logger),
		monitor.WithMetrics(m),
		monitor.WithInspectTimeout(cfg.InspectTimeout()),
		monitor.WithNotifyTimeout(cfg.NotifyTimeout()),
	)
	cleanup := func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("Failed to close docker client.", "err", err)
		}
	}
	return mon, cleanup, nil
}

func runDaemon(ctx context.Context, flags globalFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return err
	}

	m := metrics.New()
	mon, cleanup, err := buildMonitor(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	if cfg.HTTP.Listen != "" {
		app := httpadapter.NewApp(mon, m.Handler())
		go func() {
			logger.Info("Status server starting.", "addr", cfg.HTTP.Listen)
			if err := app.Listen(cfg.HTTP.Listen); err != nil {
				serverErr <- err
			}
		}()
		defer func() {
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				logger.Warn("Status server shutdown failed.", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- mon.Run(ctx, cfg.Interval()) }()

	select {
	case err := <-serverErr:
		cancel()
		<-runErr
		return fmt.Errorf("status server: %w", err)
	case err := <-runErr:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

func runCheck(ctx context.Context, flags globalFlags, baseline bool, out io.Writer) error {
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return err
	}
	mon, cleanup, err := buildMonitor(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	report := mon.RunOnce(ctx, baseline)
	return writeReport(out, report)
}

func writeReport(out io.Writer, report monitor.Report) error {
	if report.Skipped {
		_, err := fmt.Fprintln(out, "No container names retrieved.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTAINER\tSTATE")
	for _, e := range report.Observed.Entries() {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.State)
	}
	for _, name := range report.Failed {
		fmt.Fprintf(tw, "%s\t(error)\n", name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d change(s), %d notification(s), persisted: %v\n",
		len(report.Changes), len(report.Messages), report.Persisted)
	return err
}

func printState(ctx context.Context, flags globalFlags, out io.Writer) error {
	cfg, _, err := loadConfig(flags)
	if err != nil {
		return err
	}
	snap, err := statefile.New(cfg.StatePath).Load(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTAINER\tSTATE")
	for _, e := range snap.Entries() {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.State)
	}
	return tw.Flush()
}
