package threshold

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DefaultThresholds are the alert levels used when none are configured.
var DefaultThresholds = []int{20, 15, 10, 5}

// Set is an immutable collection of distinct threshold percentages.
type Set struct {
	values []int
}

// NewSet validates the given percentages and collapses duplicates.
// Input order does not matter.
func NewSet(values []int) (Set, error) {
	if len(values) == 0 {
		return Set{}, fmt.Errorf("at least one threshold is required")
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v < 0 || v > 100 {
			return Set{}, fmt.Errorf("threshold %d out of range [0,100]", v)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return Set{values: out}, nil
}

// ParseThresholds parses a comma-separated list such as "20,15,10,5".
func ParseThresholds(s string) (Set, error) {
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Set{}, fmt.Errorf("empty threshold in %q", s)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return Set{}, fmt.Errorf("invalid threshold %q: %w", p, err)
		}
		values = append(values, v)
	}
	return NewSet(values)
}

// Values returns the thresholds in ascending order.
func (s Set) Values() []int {
	return slices.Clone(s.values)
}

// Min returns the lowest threshold.
func (s Set) Min() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[0]
}

// Max returns the highest threshold.
func (s Set) Max() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// String renders the thresholds highest first, in the same form ParseThresholds accepts.
func (s Set) String() string {
	parts := make([]string, 0, len(s.values))
	for i := len(s.values) - 1; i >= 0; i-- {
		parts = append(parts, strconv.Itoa(s.values[i]))
	}
	return strings.Join(parts, ",")
}
