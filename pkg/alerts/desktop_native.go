//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package alerts

import (
	"context"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// beeep keeps the application name in a package variable.
var appNameMu sync.Mutex

// nativeBackend uses Notification Center on macOS and toast notifications on
// Windows. Critical alerts also play the system alert sound.
type nativeBackend struct {
	notify func(title, message, icon string) error
	alert  func(title, message, icon string) error
}

func newDesktopBackend() desktopBackend {
	return &nativeBackend{
		notify: func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		alert:  func(title, message, icon string) error { return beeep.Alert(title, message, icon) },
	}
}

func (b *nativeBackend) show(ctx context.Context, opts DesktopOptions, alert model.AlertEvent) error {
	if err := ctx.Err(); err != nil {
		return model.DeliveryError("show desktop notification", err)
	}

	appNameMu.Lock()
	defer appNameMu.Unlock()
	if opts.AppName != "" {
		beeep.AppName = opts.AppName
	}

	send := b.notify
	if alert.Level == model.AlertCritical {
		send = b.alert
	}
	if err := send(opts.Summary, alert.Message, opts.Icon); err != nil {
		return model.DeliveryError("show desktop notification", err)
	}
	return nil
}
