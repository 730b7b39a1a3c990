//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shown struct {
	via, title, message, icon string
}

func newTestNative(sendErr error) (*DesktopNotifier, *[]shown) {
	var calls []shown
	record := func(via string) func(title, message, icon string) error {
		return func(title, message, icon string) error {
			calls = append(calls, shown{via, title, message, icon})
			return sendErr
		}
	}
	d := NewDesktopNotifier(DesktopOptions{
		AppName: "PowerPulse",
		Summary: "PowerPulse Battery Alert",
		Icon:    "battery-low",
	})
	d.backend = &nativeBackend{notify: record("notify"), alert: record("alert")}
	return d, &calls
}

func TestDesktopNotifier_UsesNativeBackend(t *testing.T) {
	d := NewDesktopNotifier(DesktopOptions{})
	assert.Equal(t, "desktop", d.Name())
	assert.IsType(t, &nativeBackend{}, d.backend)
}

func TestNativeDesktop_Warning(t *testing.T) {
	d, calls := newTestNative(nil)

	require.NoError(t, d.Send(context.Background(), model.AlertEvent{
		Level:   model.AlertWarning,
		Message: "Battery level is at 14%",
	}))
	require.Len(t, *calls, 1)
	assert.Equal(t, shown{"notify", "PowerPulse Battery Alert", "Battery level is at 14%", "battery-low"}, (*calls)[0])
}

func TestNativeDesktop_CriticalAlertsWithSound(t *testing.T) {
	d, calls := newTestNative(nil)

	require.NoError(t, d.Send(context.Background(), model.AlertEvent{Level: model.AlertCritical}))
	require.Len(t, *calls, 1)
	assert.Equal(t, "alert", (*calls)[0].via)
}

func TestNativeDesktop_Failure(t *testing.T) {
	d, _ := newTestNative(errors.New("notification center unavailable"))

	err := d.Send(context.Background(), model.AlertEvent{})
	require.Error(t, err)
	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindDelivery, kind)
}
