package alerts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// Webhook event names. Critical alerts are those for the lowest threshold.
const (
	EventBatteryLow      = "battery.low"
	EventBatteryCritical = "battery.critical"
)

// WebhookNotifier posts alerts as JSON to a generic HTTP endpoint.
// The alert ID is sent as X-PowerPulse-Delivery so receivers can drop repeats.
type WebhookNotifier struct {
	url    string
	secret string
	host   string
	client *http.Client
	now    func() time.Time
}

// NewWebhookNotifier creates a generic webhook notifier.
// If secret is non-empty, the body is signed with HMAC-SHA256.
func NewWebhookNotifier(url, secret, host string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		host:   host,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, alert model.AlertEvent) error {
	payload := newWebhookPayload(alert, w.host, w.now())
	body, err := json.Marshal(payload)
	if err != nil {
		return model.DeliveryError("marshal webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return model.DeliveryError("create webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PowerPulse/1.0")
	req.Header.Set("X-PowerPulse-Event", payload.Event)
	req.Header.Set("X-PowerPulse-Delivery", alert.ID)
	if w.secret != "" {
		req.Header.Set("X-Signature-256", "sha256="+computeHMAC(body, []byte(w.secret)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return model.DeliveryError("send webhook alert", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.DeliveryError("send webhook alert", fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}

type webhookPayload struct {
	Event      string         `json:"event"`
	AlertID    string         `json:"alert_id"`
	Host       string         `json:"host,omitempty"`
	Message    string         `json:"message"`
	Battery    webhookBattery `json:"battery"`
	OccurredAt time.Time      `json:"occurred_at"`
	SentAt     time.Time      `json:"sent_at"`
}

// webhookBattery describes the crossing. Alerts are only raised while the
// battery is discharging, so there is no charging flag.
type webhookBattery struct {
	Percentage int              `json:"percentage"`
	Threshold  int              `json:"threshold"`
	Level      model.AlertLevel `json:"level"`
	Below      int              `json:"below_by"`
}

func newWebhookPayload(alert model.AlertEvent, host string, now time.Time) webhookPayload {
	event := EventBatteryLow
	if alert.Level == model.AlertCritical {
		event = EventBatteryCritical
	}
	return webhookPayload{
		Event:   event,
		AlertID: alert.ID,
		Host:    host,
		Message: alert.Message,
		Battery: webhookBattery{
			Percentage: alert.Percentage,
			Threshold:  alert.Threshold,
			Level:      alert.Level,
			Below:      alert.Threshold - alert.Percentage,
		},
		OccurredAt: alert.Timestamp.UTC(),
		SentAt:     now.UTC().Truncate(time.Second),
	}
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
