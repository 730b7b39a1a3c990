// Package telemetry publishes battery readings to external consumers.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// Publisher sends each reading to a telemetry sink.
type Publisher interface {
	Publish(ctx context.Context, reading model.Reading) error
	Close()
}

// MQTTOptions configures the MQTT publisher.
type MQTTOptions struct {
	Broker         string
	ClientID       string
	Topic          string
	QoS            byte
	Retained       bool
	ConnectTimeout time.Duration
}

// MQTT publishes readings as JSON messages to a single topic.
type MQTT struct {
	client   mqtt.Client
	topic    string
	qos      byte
	retained bool
	host     string
}

type readingMessage struct {
	Host     string `json:"host,omitempty"`
	Charging bool   `json:"charging"`
	model.Reading
}

// NewMQTT connects to the broker. The client reconnects on its own after
// the initial connection succeeds.
func NewMQTT(opts MQTTOptions, host string) (*MQTT, error) {
	timeout := opts.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, model.TelemetryError("connect to broker", fmt.Errorf("timed out after %s", timeout))
	}
	if err := token.Error(); err != nil {
		return nil, model.TelemetryError("connect to broker", err)
	}

	return newMQTT(client, opts.Topic, opts.QoS, opts.Retained, host), nil
}

func newMQTT(client mqtt.Client, topic string, qos byte, retained bool, host string) *MQTT {
	return &MQTT{
		client:   client,
		topic:    topic,
		qos:      qos,
		retained: retained,
		host:     host,
	}
}

func (m *MQTT) Publish(ctx context.Context, reading model.Reading) error {
	payload, err := json.Marshal(readingMessage{
		Host:     m.host,
		Charging: reading.Charging(),
		Reading:  reading,
	})
	if err != nil {
		return model.TelemetryError("marshal reading", err)
	}

	token := m.client.Publish(m.topic, m.qos, m.retained, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return model.TelemetryError("publish reading", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return model.TelemetryError("publish reading", err)
	}
	return nil
}

// Close disconnects, giving in-flight messages a short time to complete.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
