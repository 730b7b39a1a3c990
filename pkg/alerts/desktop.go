package alerts

import (
	"context"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// DesktopOptions controls how desktop notifications are rendered.
type DesktopOptions struct {
	AppName string
	Summary string
	Icon    string
	Timeout time.Duration
}

// desktopBackend shows one notification through the host's native mechanism.
type desktopBackend interface {
	show(ctx context.Context, opts DesktopOptions, alert model.AlertEvent) error
}

// DesktopNotifier shows alerts as native desktop notifications. On Linux and
// the BSDs it talks to the freedesktop notification daemon over D-Bus;
// elsewhere it uses the platform notification center.
type DesktopNotifier struct {
	opts    DesktopOptions
	backend desktopBackend
}

// NewDesktopNotifier creates a notifier for the current platform. Nothing is
// contacted until the first alert, so a missing notification service only
// fails delivery.
func NewDesktopNotifier(opts DesktopOptions) *DesktopNotifier {
	return &DesktopNotifier{
		opts:    opts,
		backend: newDesktopBackend(),
	}
}

func (d *DesktopNotifier) Name() string { return "desktop" }

func (d *DesktopNotifier) Send(ctx context.Context, alert model.AlertEvent) error {
	return d.backend.show(ctx, d.opts, alert)
}
