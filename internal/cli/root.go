package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ogulcanaydogan/powerpulse/internal/config"
	"github.com/ogulcanaydogan/powerpulse/pkg/alerts"
	"github.com/ogulcanaydogan/powerpulse/pkg/storage"
	"github.com/ogulcanaydogan/powerpulse/pkg/telemetry"
	"github.com/ogulcanaydogan/powerpulse/pkg/threshold"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "powerpulse",
	Short: "PowerPulse - battery monitor with low-battery alerts",
	Long: `PowerPulse polls the host battery, keeps a local history of readings
and raises a notification once each time the charge drops through one of
the configured thresholds while discharging.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.powerpulse/config.yaml)")

	rootCmd.Flags().BoolP("daemon", "d", false, "Run the monitor in the foreground until interrupted")
	rootCmd.Flags().BoolP("status", "s", false, "Show the current battery status and exit")
	rootCmd.Flags().StringP("thresholds", "t", "", "Comma-separated alert thresholds (default from config: 20,15,10,5)")
	rootCmd.Flags().String("interval", "", "Poll interval, e.g. 30s (default from config)")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	daemon, _ := cmd.Flags().GetBool("daemon")

	switch {
	case status:
		return runStatus(cmd)
	case daemon:
		return runDaemon(cmd)
	default:
		printUsageHints(cmd.OutOrStdout())
		return nil
	}
}

func printUsageHints(w io.Writer) {
	fmt.Fprintln(w, "Run with --daemon to start background monitoring")
	fmt.Fprintln(w, "Run with --status to check current battery status")
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("interval"); f != nil && f.Changed {
		cfg.Monitor.Interval = f.Value.String()
	}
	return cfg, nil
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// resolveThresholds prefers the --thresholds flag over the configured list.
func resolveThresholds(flagValue string, cfg *config.Config) (threshold.Set, error) {
	if flagValue != "" {
		return threshold.ParseThresholds(flagValue)
	}
	if len(cfg.Monitor.Thresholds) == 0 {
		return threshold.NewSet(threshold.DefaultThresholds)
	}
	return threshold.NewSet(cfg.Monitor.Thresholds)
}

// parseDurations reads the poll interval and per-tick timeout.
func parseDurations(cfg *config.Config) (interval, tickTimeout time.Duration, err error) {
	interval, err = time.ParseDuration(cfg.Monitor.Interval)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid monitor.interval %q: %w", cfg.Monitor.Interval, err)
	}
	if interval <= 0 {
		return 0, 0, fmt.Errorf("invalid monitor.interval %q: must be positive", cfg.Monitor.Interval)
	}
	if cfg.Monitor.TickTimeout != "" {
		tickTimeout, err = time.ParseDuration(cfg.Monitor.TickTimeout)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid monitor.tick_timeout %q: %w", cfg.Monitor.TickTimeout, err)
		}
	}
	return interval, tickTimeout, nil
}

// initStorage opens the history store from config.
func initStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewSQLite(cfg.Storage.Path)
}

// initNotifiers creates alert notifiers from config.
func initNotifiers(cfg *config.Config, host string) []alerts.Notifier {
	var notifiers []alerts.Notifier

	if d := cfg.Notifications.Desktop; d.Enabled {
		notifiers = append(notifiers, alerts.NewDesktopNotifier(alerts.DesktopOptions{
			AppName: d.AppName,
			Summary: d.Summary,
			Icon:    d.Icon,
			Timeout: time.Duration(d.TimeoutMS) * time.Millisecond,
		}))
	}

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
			host,
		))
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
			host,
		))
	}

	return notifiers
}

// initPublisher connects the MQTT publisher when enabled. A broker that
// cannot be reached disables telemetry rather than failing startup.
func initPublisher(cfg *config.Config, host string, logger *slog.Logger) telemetry.Publisher {
	if !cfg.MQTT.Enabled {
		return nil
	}
	pub, err := telemetry.NewMQTT(telemetry.MQTTOptions{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Topic:    cfg.MQTT.Topic,
		QoS:      cfg.MQTT.QoS,
		Retained: cfg.MQTT.Retained,
	}, host)
	if err != nil {
		logger.Error("telemetry disabled", "broker", cfg.MQTT.Broker, "error", err)
		return nil
	}
	logger.Info("telemetry enabled", "broker", cfg.MQTT.Broker, "topic", cfg.MQTT.Topic)
	return pub
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil {
		return ""
	}
	return host
}
