// Package threshold turns a stream of battery percentages into
// edge-triggered low-battery alerts.
package threshold

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// Notifier remembers the level seen on the previous tick and reports a
// threshold only on the tick where the level first drops to or below it.
//
// A Notifier is owned by a single poll loop and is not safe for concurrent use.
type Notifier struct {
	thresholds Set
	lastLevel  *int
	now        func() time.Time
}

// NewNotifier creates a notifier for the given thresholds with no previous level.
func NewNotifier(thresholds Set) *Notifier {
	return &Notifier{
		thresholds: thresholds,
		now:        time.Now,
	}
}

// Evaluate consumes one tick. It returns an alert when current crossed at
// least one threshold since the previous tick and the battery is not
// charging. The previous level is replaced by current on every call,
// including charging ticks, so thresholds passed while charging count as
// crossed once discharge resumes.
func (n *Notifier) Evaluate(current int, charging bool) (model.AlertEvent, bool) {
	crossed, ok := n.lowestCrossed(current)
	n.lastLevel = &current

	if !ok || charging {
		return model.AlertEvent{}, false
	}

	level := model.AlertWarning
	if crossed == n.thresholds.Min() {
		level = model.AlertCritical
	}

	return model.AlertEvent{
		ID:         uuid.New().String(),
		Percentage: current,
		Threshold:  crossed,
		Level:      level,
		Message:    fmt.Sprintf("Battery level is at %d%%", current),
		Timestamp:  n.now().UTC(),
	}, true
}

// LastLevel returns the level recorded by the most recent Evaluate call.
func (n *Notifier) LastLevel() (int, bool) {
	if n.lastLevel == nil {
		return 0, false
	}
	return *n.lastLevel, true
}

// Thresholds returns the configured thresholds.
func (n *Notifier) Thresholds() Set {
	return n.thresholds
}

// lowestCrossed evaluates the crossing predicate against the pre-tick state.
func (n *Notifier) lowestCrossed(current int) (int, bool) {
	for _, t := range n.thresholds.values {
		if current > t {
			continue
		}
		if n.lastLevel == nil || *n.lastLevel > t {
			return t, true
		}
	}
	return 0, false
}

// Level converts a raw percentage into the integer level the notifier works
// on. Fractions are truncated and the result is clamped to [0,100].
func Level(percentage float64) int {
	if math.IsNaN(percentage) || percentage <= 0 {
		return 0
	}
	if percentage >= 100 {
		return 100
	}
	return int(percentage)
}
