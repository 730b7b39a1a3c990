package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	mqtt.Token
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{done: done, err: err}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mqtt.Client
	calls        []publishCall
	token        *fakeToken
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.calls = append(c.calls, publishCall{topic, qos, retained, payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestMQTT_Publish(t *testing.T) {
	client := &fakeClient{token: completedToken(nil)}
	pub := newMQTT(client, "powerpulse/battery", 1, true, "laptop")

	reading := model.Reading{
		Timestamp:   time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC),
		Percentage:  47.5,
		State:       model.StateDischarging,
		TimeToEmpty: model.Minutes(95),
	}
	require.NoError(t, pub.Publish(context.Background(), reading))

	require.Len(t, client.calls, 1)
	call := client.calls[0]
	assert.Equal(t, "powerpulse/battery", call.topic)
	assert.Equal(t, byte(1), call.qos)
	assert.True(t, call.retained)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(call.payload, &msg))
	assert.Equal(t, "laptop", msg["host"])
	assert.Equal(t, false, msg["charging"])
	assert.Equal(t, 47.5, msg["percentage"])
	assert.Equal(t, "Discharging", msg["state"])
	assert.Equal(t, float64(95), msg["time_to_empty"])
	assert.NotContains(t, msg, "time_to_full")
}

func TestMQTT_Publish_Error(t *testing.T) {
	client := &fakeClient{token: completedToken(errors.New("not connected"))}
	pub := newMQTT(client, "t", 0, false, "")

	err := pub.Publish(context.Background(), model.Reading{State: model.StateCharging})
	require.Error(t, err)
	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindTelemetry, kind)
}

func TestMQTT_Publish_ContextCancelled(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: make(chan struct{})}}
	pub := newMQTT(client, "t", 0, false, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, model.Reading{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMQTT_Close(t *testing.T) {
	client := &fakeClient{}
	newMQTT(client, "t", 0, false, "").Close()
	assert.True(t, client.disconnected)
}
