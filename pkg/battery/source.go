// Package battery reads the host battery state.
package battery

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/distatus/battery"
	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

var (
	// ErrNoBattery is returned when the host reports no battery.
	ErrNoBattery = errors.New("no battery found")

	// ErrPlatform is returned when the platform battery query fails.
	ErrPlatform = errors.New("platform query failed")
)

// Source produces one reading per call.
type Source interface {
	Status(ctx context.Context) (model.Reading, error)
}

// Sample is the raw battery data a reading is derived from.
// Energy values are in mWh and the rate in mW, as reported by the platform.
type Sample struct {
	State      string
	Current    float64
	Full       float64
	ChargeRate float64
}

// SystemSource reads the first battery the platform reports.
type SystemSource struct {
	getAll func() ([]*battery.Battery, error)
	now    func() time.Time
}

// NewSystemSource verifies that the platform battery API can be queried.
// A host without a battery is not an error here; Status reports it per call.
func NewSystemSource() (*SystemSource, error) {
	s := &SystemSource{getAll: battery.GetAll, now: time.Now}
	batteries, err := s.getAll()
	if err != nil && len(batteries) == 0 {
		return nil, model.SourceError("open battery source", errors.Join(ErrPlatform, err))
	}
	return s, nil
}

// Status returns the current state of the first battery.
// Partial platform failures are tolerated only when the charge level itself
// was read; otherwise the reading would report a level the host never had.
func (s *SystemSource) Status(_ context.Context) (model.Reading, error) {
	batteries, err := s.getAll()
	if len(batteries) == 0 {
		if err != nil {
			return model.Reading{}, model.SourceError("query battery", errors.Join(ErrPlatform, err))
		}
		return model.Reading{}, model.SourceError("query battery", ErrNoBattery)
	}

	if cause := unusable(err, 0); cause != nil {
		return model.Reading{}, model.SourceError("query battery", errors.Join(ErrPlatform, cause))
	}

	b := batteries[0]
	if b == nil || b.Full <= 0 {
		return model.Reading{}, model.SourceError("query battery", errors.Join(ErrPlatform, err))
	}

	return ReadingFromSample(Sample{
		State:      b.State.String(),
		Current:    b.Current,
		Full:       b.Full,
		ChargeRate: b.ChargeRate,
	}, s.now()), nil
}

// unusable returns the error that makes battery i's data meaningless, or nil.
// Failures on the state, rate or voltage fields only cost the state label and
// the time estimates, so they are not reported.
func unusable(err error, i int) error {
	if err == nil {
		return nil
	}
	var errs battery.Errors
	if !errors.As(err, &errs) {
		return err
	}
	if i >= len(errs) || errs[i] == nil {
		return nil
	}
	switch e := errs[i].(type) {
	case battery.ErrPartial:
		if e.Current != nil || e.Full != nil {
			return e
		}
		return nil
	default:
		return e
	}
}

// ReadingFromSample converts raw battery data into a reading.
// Time to empty is only set while discharging, time to full only while charging.
func ReadingFromSample(s Sample, at time.Time) model.Reading {
	r := model.Reading{
		Timestamp: at,
		State:     model.ParseState(s.State),
	}
	if s.Full > 0 {
		r.Percentage = math.Min(100, math.Max(0, s.Current/s.Full*100))
	}

	rate := math.Abs(s.ChargeRate)
	if rate == 0 {
		return r
	}
	switch r.State {
	case model.StateDischarging:
		r.TimeToEmpty = model.Minutes(int(s.Current / rate * 60))
	case model.StateCharging:
		if remaining := s.Full - s.Current; remaining > 0 {
			r.TimeToFull = model.Minutes(int(remaining / rate * 60))
		}
	}
	return r
}
