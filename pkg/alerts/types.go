package alerts

import (
	"context"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// Notifier delivers low-battery alerts to the user.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. Failures are returned as delivery errors.
	Send(ctx context.Context, alert model.AlertEvent) error
}
