package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// SlackNotifier sends alerts to a Slack webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	host       string
	client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier. host names the machine
// the battery belongs to in the message.
func NewSlackNotifier(webhookURL, channel, host string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		host:       host,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *SlackNotifier) Name() string { return "slack" }

func (s *SlackNotifier) Send(ctx context.Context, alert model.AlertEvent) error {
	color := "#ff9900" // orange
	if alert.Level == model.AlertCritical {
		color = "#ff0000" // red
	}

	payload := slackPayload{
		Channel: s.channel,
		Attachments: []slackAttachment{
			{
				Color: color,
				Title: fmt.Sprintf("PowerPulse: battery %s", string(alert.Level)),
				Text:  alert.Message,
				Fields: []slackField{
					{Title: "Host", Value: s.host, Short: true},
					{Title: "Battery", Value: fmt.Sprintf("%d%%", alert.Percentage), Short: true},
					{Title: "Threshold", Value: fmt.Sprintf("%d%%", alert.Threshold), Short: true},
				},
				Footer: "PowerPulse",
				Ts:     alert.Timestamp.Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return model.DeliveryError("marshal slack payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return model.DeliveryError("create slack request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return model.DeliveryError("send slack alert", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.DeliveryError("send slack alert", fmt.Errorf("slack returned status %d", resp.StatusCode))
	}
	return nil
}

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
