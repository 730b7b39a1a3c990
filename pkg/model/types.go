package model

import "time"

// State is the power state label stored with every reading.
type State string

const (
	StateCharging    State = "Charging"
	StateDischarging State = "Discharging"
	StateEmpty       State = "Empty"
	StateFull        State = "Full"
	StateUnknown     State = "Unknown"
	StateOther       State = "Other"
)

// ParseState maps a platform state name onto one of the stored labels.
// Anything unrecognised becomes StateOther.
func ParseState(s string) State {
	switch State(s) {
	case StateCharging, StateDischarging, StateEmpty, StateFull, StateUnknown:
		return State(s)
	}
	switch s {
	case "charging":
		return StateCharging
	case "discharging":
		return StateDischarging
	case "empty":
		return StateEmpty
	case "full":
		return StateFull
	case "", "unknown":
		return StateUnknown
	}
	return StateOther
}

// Reading is a single battery sample.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Percentage  float64   `json:"percentage"`
	State       State     `json:"state"`
	TimeToEmpty *int      `json:"time_to_empty,omitempty"` // minutes
	TimeToFull  *int      `json:"time_to_full,omitempty"`  // minutes
}

// Charging reports whether the battery is taking charge.
func (r Reading) Charging() bool {
	return r.State == StateCharging
}

// OnExternalPower reports whether the host was plugged in at the time of the reading.
func (r Reading) OnExternalPower() bool {
	return r.State == StateCharging || r.State == StateFull
}

// HistoryRecord is a persisted reading.
type HistoryRecord struct {
	ID int64 `json:"id" db:"id"`
	Reading
}

// AlertLevel indicates how far the battery has drained.
type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"  // A threshold above the lowest one was crossed
	AlertCritical AlertLevel = "critical" // The lowest configured threshold was crossed
)

// AlertEvent is a low-battery alert produced by a threshold crossing.
type AlertEvent struct {
	ID         string     `json:"id"`
	Percentage int        `json:"percentage"`
	Threshold  int        `json:"threshold"`
	Level      AlertLevel `json:"level"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}

// HistoryWindow returns the [start, end) range covering the last days days up to now.
// A non-positive days value selects a single day.
func HistoryWindow(days int, now time.Time) (start, end time.Time) {
	if days <= 0 {
		days = 1
	}
	end = now.UTC()
	start = end.AddDate(0, 0, -days)
	return start, end
}

// Minutes returns a pointer to m, for optional duration fields.
func Minutes(m int) *int {
	return &m
}
