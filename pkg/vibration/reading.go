// Package vibration computes RMS vibration velocity from per-point
// channel readings and classifies severity against the ISO 10816 zone
// table. Functions are pure and safe for concurrent use.
package vibration

import (
	"fmt"
	"math"
)

// Reading holds the channel values captured at one measurement point.
// Velocity channels are mm/s RMS per axis; a nil channel was not
// measured and is excluded from aggregation, not treated as zero.
type Reading struct {
	VelocityVertical   *float64 `json:"velocityVertical,omitempty"`
	VelocityHorizontal *float64 `json:"velocityHorizontal,omitempty"`
	VelocityAxial      *float64 `json:"velocityAxial,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
}

// ValidationError reports a malformed reading: no velocity channels
// present, or a present value that is negative or non-finite.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vibration: %s: %s", e.Field, e.Message)
}

// RMSVelocity returns the root-mean-square across whichever velocity
// channels are present in the reading.
func RMSVelocity(r Reading) (float64, error) {
	channels := []struct {
		name  string
		value *float64
	}{
		{"velocityVertical", r.VelocityVertical},
		{"velocityHorizontal", r.VelocityHorizontal},
		{"velocityAxial", r.VelocityAxial},
	}
	sum := 0.0
	present := 0
	for _, ch := range channels {
		if ch.value == nil {
			continue
		}
		v := *ch.value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &ValidationError{Field: ch.name, Message: "value is not finite"}
		}
		if v < 0 {
			return 0, &ValidationError{Field: ch.name, Message: fmt.Sprintf("velocity must be non-negative, got %v", v)}
		}
		sum += v * v
		present++
	}
	if present == 0 {
		return 0, &ValidationError{Field: "velocity", Message: "no velocity channels present"}
	}
	return math.Sqrt(sum / float64(present)), nil
}
