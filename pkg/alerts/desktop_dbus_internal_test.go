//go:build linux || freebsd || openbsd || netbsd || dragonfly

package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBusObject records Notify calls. Methods other than CallWithContext
// are never used by DesktopNotifier.
type fakeBusObject struct {
	dbus.BusObject
	method string
	args   []interface{}
	err    error
}

func (f *fakeBusObject) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Err: f.err}
}

func newTestDesktop(obj *fakeBusObject, connectErr error) *DesktopNotifier {
	d := NewDesktopNotifier(DesktopOptions{
		AppName: "PowerPulse",
		Summary: "PowerPulse Battery Alert",
		Icon:    "battery-low",
		Timeout: 5 * time.Second,
	})
	d.backend = &dbusBackend{connect: func() (dbus.BusObject, error) {
		if connectErr != nil {
			return nil, connectErr
		}
		return obj, nil
	}}
	return d
}

func TestDesktopNotifier_UsesSessionBus(t *testing.T) {
	d := NewDesktopNotifier(DesktopOptions{})
	assert.Equal(t, "desktop", d.Name())
	assert.IsType(t, &dbusBackend{}, d.backend)
}

func TestDesktopNotifier_Send(t *testing.T) {
	obj := &fakeBusObject{}
	d := newTestDesktop(obj, nil)

	err := d.Send(context.Background(), model.AlertEvent{
		Percentage: 14,
		Threshold:  15,
		Level:      model.AlertWarning,
		Message:    "Battery level is at 14%",
	})
	require.NoError(t, err)

	assert.Equal(t, "org.freedesktop.Notifications.Notify", obj.method)
	require.Len(t, obj.args, 8)
	assert.Equal(t, "PowerPulse", obj.args[0])
	assert.Equal(t, uint32(0), obj.args[1])
	assert.Equal(t, "battery-low", obj.args[2])
	assert.Equal(t, "PowerPulse Battery Alert", obj.args[3])
	assert.Equal(t, "Battery level is at 14%", obj.args[4])
	assert.Equal(t, int32(5000), obj.args[7])

	hints, ok := obj.args[6].(map[string]dbus.Variant)
	require.True(t, ok)
	assert.Equal(t, urgencyNormal, hints["urgency"].Value())
}

func TestDesktopNotifier_CriticalUrgency(t *testing.T) {
	obj := &fakeBusObject{}
	d := newTestDesktop(obj, nil)

	require.NoError(t, d.Send(context.Background(), model.AlertEvent{Level: model.AlertCritical}))
	hints := obj.args[6].(map[string]dbus.Variant)
	assert.Equal(t, urgencyCritical, hints["urgency"].Value())
}

func TestDesktopNotifier_BusUnavailable(t *testing.T) {
	d := newTestDesktop(nil, errors.New("no session bus"))

	err := d.Send(context.Background(), model.AlertEvent{})
	require.Error(t, err)
	kind, _ := model.KindOf(err)
	assert.Equal(t, model.KindDelivery, kind)
}

func TestDesktopNotifier_CallFails(t *testing.T) {
	obj := &fakeBusObject{err: errors.New("service unknown")}
	d := newTestDesktop(obj, nil)

	err := d.Send(context.Background(), model.AlertEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service unknown")
}
