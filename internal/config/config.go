package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all PowerPulse configuration.
type Config struct {
	Storage       StorageConfig       `mapstructure:"storage" yaml:"storage"`
	Monitor       MonitorConfig       `mapstructure:"monitor" yaml:"monitor"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Alerts        AlertsConfig        `mapstructure:"alerts" yaml:"alerts"`
	MQTT          MQTTConfig          `mapstructure:"mqtt" yaml:"mqtt"`
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`
}

// StorageConfig defines database settings.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// MonitorConfig defines poll loop settings.
type MonitorConfig struct {
	Interval    string `mapstructure:"interval" yaml:"interval"`
	TickTimeout string `mapstructure:"tick_timeout" yaml:"tick_timeout"`
	Thresholds  []int  `mapstructure:"thresholds" yaml:"thresholds"`
}

// NotificationsConfig defines local notification settings.
type NotificationsConfig struct {
	Desktop DesktopConfig `mapstructure:"desktop" yaml:"desktop"`
}

// DesktopConfig defines desktop notification settings.
type DesktopConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	AppName   string `mapstructure:"app_name" yaml:"app_name"`
	Summary   string `mapstructure:"summary" yaml:"summary"`
	Icon      string `mapstructure:"icon" yaml:"icon"`
	TimeoutMS int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
}

// AlertsConfig defines remote alerting integrations.
type AlertsConfig struct {
	Slack   SlackConfig   `mapstructure:"slack" yaml:"slack"`
	Webhook WebhookConfig `mapstructure:"webhook" yaml:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
	Channel    string `mapstructure:"channel" yaml:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	URL     string `mapstructure:"url" yaml:"url"`
	Secret  string `mapstructure:"secret" yaml:"secret"`
}

// MQTTConfig defines reading telemetry settings.
type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Broker   string `mapstructure:"broker" yaml:"broker"`
	Topic    string `mapstructure:"topic" yaml:"topic"`
	ClientID string `mapstructure:"client_id" yaml:"client_id"`
	QoS      byte   `mapstructure:"qos" yaml:"qos"`
	Retained bool   `mapstructure:"retained" yaml:"retained"`
}

// ServerConfig defines the optional history and metrics API.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("find home directory: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Join(home, ".powerpulse"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	v.SetDefault("storage.path", filepath.Join(home, ".powerpulse", "battery_history.db"))
	v.SetDefault("monitor.interval", "60s")
	v.SetDefault("monitor.tick_timeout", "0s")
	v.SetDefault("monitor.thresholds", []int{20, 15, 10, 5})
	v.SetDefault("notifications.desktop.enabled", true)
	v.SetDefault("notifications.desktop.app_name", "PowerPulse")
	v.SetDefault("notifications.desktop.summary", "PowerPulse Battery Alert")
	v.SetDefault("notifications.desktop.icon", "battery-low")
	v.SetDefault("notifications.desktop.timeout_ms", 5000)
	v.SetDefault("alerts.slack.enabled", false)
	v.SetDefault("alerts.slack.webhook_url", "")
	v.SetDefault("alerts.slack.channel", "#battery")
	v.SetDefault("alerts.webhook.enabled", false)
	v.SetDefault("alerts.webhook.url", "")
	v.SetDefault("alerts.webhook.secret", "")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic", "powerpulse/battery")
	v.SetDefault("mqtt.client_id", "powerpulse")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("mqtt.retained", true)
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.listen", "127.0.0.1:9477")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("POWERPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Dump writes the configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
