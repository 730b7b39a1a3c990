package alerts_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ogulcanaydogan/powerpulse/pkg/alerts"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_Name(t *testing.T) {
	n := alerts.NewWebhookNotifier("https://example.com/webhook", "", "laptop")
	assert.Equal(t, "webhook", n.Name())
}

func TestWebhookNotifier_Send(t *testing.T) {
	var received map[string]any
	var headers http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		headers = r.Header.Clone()

		err := json.NewDecoder(r.Body).Decode(&received)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "", "laptop")
	err := n.Send(context.Background(), testAlert(model.AlertWarning))
	require.NoError(t, err)

	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "PowerPulse/1.0", headers.Get("User-Agent"))
	assert.Equal(t, alerts.EventBatteryLow, headers.Get("X-PowerPulse-Event"))
	assert.Equal(t, "6f1c2d0e-0000-4000-8000-000000000001", headers.Get("X-PowerPulse-Delivery"))

	assert.Equal(t, "battery.low", received["event"])
	assert.Equal(t, "6f1c2d0e-0000-4000-8000-000000000001", received["alert_id"])
	assert.Equal(t, "laptop", received["host"])
	assert.Equal(t, "Battery level is at 9%", received["message"])
	assert.Equal(t, "2026-07-01T08:00:00Z", received["occurred_at"])
	assert.NotEmpty(t, received["sent_at"])

	battery := received["battery"].(map[string]any)
	assert.Equal(t, float64(9), battery["percentage"])
	assert.Equal(t, float64(10), battery["threshold"])
	assert.Equal(t, float64(1), battery["below_by"])
	assert.Equal(t, "warning", battery["level"])
}

func TestWebhookNotifier_Send_Critical(t *testing.T) {
	var event string
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event = r.Header.Get("X-PowerPulse-Event")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "", "laptop")
	require.NoError(t, n.Send(context.Background(), testAlert(model.AlertCritical)))

	assert.Equal(t, alerts.EventBatteryCritical, event)
	assert.Equal(t, "battery.critical", received["event"])
	assert.Equal(t, "critical", received["battery"].(map[string]any)["level"])
}

func TestWebhookNotifier_Send_WithHMAC(t *testing.T) {
	var signature string
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get("X-Signature-256")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "test-secret", "laptop")
	err := n.Send(context.Background(), testAlert(model.AlertWarning))
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write(body)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), signature)
}

func TestWebhookNotifier_Send_NoHMAC(t *testing.T) {
	var hasSignature bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasSignature = r.Header.Get("X-Signature-256") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "", "laptop")
	err := n.Send(context.Background(), testAlert(model.AlertWarning))
	require.NoError(t, err)
	assert.False(t, hasSignature)
}

func TestWebhookNotifier_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := alerts.NewWebhookNotifier(server.URL, "", "laptop")
	err := n.Send(context.Background(), testAlert(model.AlertWarning))
	require.Error(t, err)
	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindDelivery, kind)
}
