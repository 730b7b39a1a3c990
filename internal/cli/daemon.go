package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogulcanaydogan/powerpulse/internal/config"
	"github.com/ogulcanaydogan/powerpulse/internal/server"
	"github.com/ogulcanaydogan/powerpulse/pkg/battery"
	"github.com/ogulcanaydogan/powerpulse/pkg/metrics"
	"github.com/ogulcanaydogan/powerpulse/pkg/monitor"
	"github.com/ogulcanaydogan/powerpulse/pkg/storage"
	"github.com/ogulcanaydogan/powerpulse/pkg/threshold"
	"github.com/spf13/cobra"
)

func runDaemon(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	flagThresholds, _ := cmd.Flags().GetString("thresholds")
	thresholds, err := resolveThresholds(flagThresholds, cfg)
	if err != nil {
		return err
	}
	interval, tickTimeout, err := parseDurations(cfg)
	if err != nil {
		return err
	}

	// Startup failures of the source or the store are fatal.
	source, err := battery.NewSystemSource()
	if err != nil {
		return err
	}
	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	host := hostname()
	m := metrics.New()

	publisher := initPublisher(cfg, host, logger)
	if publisher != nil {
		defer publisher.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	releaseOnDone(ctx, stop)

	if cfg.Server.Enabled {
		srv := startServer(cfg, store, m, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown", "error", err)
			}
		}()
	}

	mon := monitor.New(source, store, threshold.NewNotifier(thresholds), initNotifiers(cfg, host), logger, monitor.Options{
		Interval:    interval,
		TickTimeout: tickTimeout,
		Publisher:   publisher,
		Metrics:     m,
	})

	fmt.Fprintln(cmd.OutOrStdout(), "PowerPulse is running in the background. Press Ctrl+C to exit.")
	return mon.Run(ctx)
}

// startServer serves the history API in the background. A listen failure is
// logged and does not stop monitoring.
func startServer(cfg *config.Config, store storage.Storage, m *metrics.Metrics, logger *slog.Logger) *http.Server {
	api := server.NewServer(store, m.Registry(), logger)
	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      api.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server started", "listen", cfg.Server.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()
	return srv
}

// releaseOnDone restores default signal handling once ctx is done. The first
// signal stops the loop after the current tick; a second one terminates the
// process even if that tick is stuck.
func releaseOnDone(ctx context.Context, stop context.CancelFunc) {
	go func() {
		<-ctx.Done()
		stop()
	}()
}
