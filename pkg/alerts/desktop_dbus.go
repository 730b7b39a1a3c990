//go:build linux || freebsd || openbsd || netbsd || dragonfly

package alerts

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsDest + ".Notify"
)

// Urgency hint values understood by freedesktop notification daemons.
const (
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

type dbusBackend struct {
	connect func() (dbus.BusObject, error)
}

func newDesktopBackend() desktopBackend {
	return &dbusBackend{connect: sessionNotifications}
}

func sessionNotifications() (dbus.BusObject, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return conn.Object(notificationsDest, notificationsPath), nil
}

func (b *dbusBackend) show(ctx context.Context, opts DesktopOptions, alert model.AlertEvent) error {
	obj, err := b.connect()
	if err != nil {
		return model.DeliveryError("connect to session bus", err)
	}

	urgency := urgencyNormal
	if alert.Level == model.AlertCritical {
		urgency = urgencyCritical
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	call := obj.CallWithContext(ctx, notificationsNotify, 0,
		opts.AppName,
		uint32(0), // replaces_id
		opts.Icon,
		opts.Summary,
		alert.Message,
		[]string{}, // actions
		hints,
		int32(opts.Timeout.Milliseconds()),
	)
	if call.Err != nil {
		return model.DeliveryError("show desktop notification", call.Err)
	}
	return nil
}
