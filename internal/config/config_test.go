package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ogulcanaydogan/powerpulse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "60s", cfg.Monitor.Interval)
	assert.Equal(t, "0s", cfg.Monitor.TickTimeout)
	assert.Equal(t, []int{20, 15, 10, 5}, cfg.Monitor.Thresholds)
	assert.True(t, cfg.Notifications.Desktop.Enabled)
	assert.Equal(t, "PowerPulse Battery Alert", cfg.Notifications.Desktop.Summary)
	assert.Equal(t, "battery-low", cfg.Notifications.Desktop.Icon)
	assert.Equal(t, 5000, cfg.Notifications.Desktop.TimeoutMS)
	assert.False(t, cfg.Alerts.Slack.Enabled)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "powerpulse/battery", cfg.MQTT.Topic)
	assert.True(t, cfg.MQTT.Retained)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, "127.0.0.1:9477", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "battery_history.db", filepath.Base(cfg.Storage.Path))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte(`
storage:
  path: /tmp/battery.db
monitor:
  interval: 30s
  thresholds: [30, 10]
notifications:
  desktop:
    enabled: false
mqtt:
  enabled: true
  broker: tcp://broker.lan:1883
  qos: 1
logging:
  level: debug
`)
	err := os.WriteFile(cfgPath, data, 0o644)
	require.NoError(t, err)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/battery.db", cfg.Storage.Path)
	assert.Equal(t, "30s", cfg.Monitor.Interval)
	assert.Equal(t, []int{30, 10}, cfg.Monitor.Thresholds)
	assert.False(t, cfg.Notifications.Desktop.Enabled)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://broker.lan:1883", cfg.MQTT.Broker)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "powerpulse/battery", cfg.MQTT.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POWERPULSE_LOGGING_LEVEL", "error")
	t.Setenv("POWERPULSE_MONITOR_INTERVAL", "5m")
	t.Setenv("POWERPULSE_SERVER_ENABLED", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "5m", cfg.Monitor.Interval)
	assert.True(t, cfg.Server.Enabled)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	err := os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0o644)
	require.NoError(t, err)

	_, err = config.Load(cfgPath)
	assert.Error(t, err)
}

func TestConfig_Dump(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.Dump(&buf))

	var decoded config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *cfg, decoded)
	assert.Contains(t, buf.String(), "tick_timeout: 0s")
}
