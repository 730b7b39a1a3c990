// Package stats derives usage statistics from battery history.
package stats

import (
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// fullChargeLevel is the percentage at which a charge counts as complete.
const fullChargeLevel = 99.5

// Summary holds statistics over a span of history. Pointer fields are nil
// when the history does not contain enough data to compute them.
type Summary struct {
	Samples int       `json:"samples"`
	From    time.Time `json:"from,omitzero"`
	To      time.Time `json:"to,omitzero"`

	// Rates are in percent per hour.
	AverageDischargeRate *float64 `json:"average_discharge_rate,omitempty"`
	AverageChargeRate    *float64 `json:"average_charge_rate,omitempty"`

	// DischargeCycles counts transitions from battery power to external power.
	DischargeCycles int `json:"discharge_cycles"`
	FullCharges     int `json:"full_charges"`

	// AverageDailyUsage is the total percentage discharged per day.
	AverageDailyUsage *float64 `json:"average_daily_usage,omitempty"`

	LongestSession *time.Duration `json:"longest_session,omitempty"`
}

// Compute summarises records ordered oldest first.
func Compute(records []model.HistoryRecord) Summary {
	s := Summary{Samples: len(records)}
	if len(records) == 0 {
		return s
	}
	s.From = records[0].Timestamp
	s.To = records[len(records)-1].Timestamp

	var dischargeRates, chargeRates []float64
	var discharged float64
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		diff := cur.Percentage - prev.Percentage
		if diff < 0 {
			discharged -= diff
		}

		if cur.OnExternalPower() && cur.Percentage >= fullChargeLevel && prev.Percentage < fullChargeLevel {
			s.FullCharges++
		}
		if !prev.OnExternalPower() && cur.OnExternalPower() {
			s.DischargeCycles++
		}

		hours := cur.Timestamp.Sub(prev.Timestamp).Hours()
		if hours <= 0 {
			continue
		}
		switch {
		case cur.OnExternalPower() && diff > 0:
			chargeRates = append(chargeRates, diff/hours)
		case !cur.OnExternalPower() && diff < 0:
			dischargeRates = append(dischargeRates, -diff/hours)
		}
	}

	s.AverageDischargeRate = mean(dischargeRates)
	s.AverageChargeRate = mean(chargeRates)

	if len(records) < 2 {
		return s
	}

	if days := s.To.Sub(s.From).Hours() / 24; days > 0 {
		usage := discharged / days
		s.AverageDailyUsage = &usage
	}

	longest := longestSession(records)
	s.LongestSession = &longest
	return s
}

// longestSession returns the longest uninterrupted run on battery power. A
// session still open at the last record ends at that record.
func longestSession(records []model.HistoryRecord) time.Duration {
	var longest time.Duration
	var start *time.Time
	for _, r := range records {
		if !r.OnExternalPower() {
			if start == nil {
				ts := r.Timestamp
				start = &ts
			}
			continue
		}
		if start != nil {
			longest = max(longest, r.Timestamp.Sub(*start))
			start = nil
		}
	}
	if start != nil {
		longest = max(longest, records[len(records)-1].Timestamp.Sub(*start))
	}
	return longest
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}
