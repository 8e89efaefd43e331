// Package reliability implements Weibull-distribution reliability
// statistics for rotating equipment: survival and hazard functions plus
// the life metrics (MTTF, median, B10) shown on asset health views.
//
// All functions are pure and safe for concurrent use. Invalid inputs and
// non-finite results fail with *DomainError; nothing is silently clamped.
package reliability

import (
	"math"
)

// Parameters describes a three-parameter Weibull distribution. Shape and
// Scale must be strictly positive. Location shifts every time argument
// (t' = t - Location) and defaults to zero.
type Parameters struct {
	Shape    float64 `json:"shape"`
	Scale    float64 `json:"scale"`
	Location float64 `json:"location,omitempty"`
}

func (p Parameters) validate(op string) error {
	// !(x > 0) also rejects NaN.
	if !(p.Shape > 0) || math.IsInf(p.Shape, 0) {
		return domainErrorf(op, "shape must be strictly positive and finite, got %v", p.Shape)
	}
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		return domainErrorf(op, "scale must be strictly positive and finite, got %v", p.Scale)
	}
	if math.IsNaN(p.Location) || math.IsInf(p.Location, 0) {
		return domainErrorf(op, "location must be finite, got %v", p.Location)
	}
	return nil
}

// Reliability returns R(t) = exp(-((t-location)/scale)^shape), the
// probability of surviving past t hours. For t below the location shift
// the unit is not yet exposed to wear and R is 1.
func Reliability(t float64, p Parameters) (float64, error) {
	const op = "reliability"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, domainErrorf(op, "time must be finite, got %v", t)
	}
	shifted := t - p.Location
	if shifted < 0 {
		return 1, nil
	}
	r := math.Exp(-math.Pow(shifted/p.Scale, p.Shape))
	return checkFinite(op, r)
}

// CumulativeFailure returns F(t) = 1 - R(t), the probability of failure
// by time t.
func CumulativeFailure(t float64, p Parameters) (float64, error) {
	r, err := Reliability(t, p)
	if err != nil {
		return 0, err
	}
	return 1 - r, nil
}

// FailureDensity returns the probability density f(t). The density is
// singular at the location shift when shape < 1; callers must guard or
// clamp before plotting near that point.
func FailureDensity(t float64, p Parameters) (float64, error) {
	const op = "failure density"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, domainErrorf(op, "time must be finite, got %v", t)
	}
	shifted := t - p.Location
	if shifted < 0 {
		if p.Shape < 1 {
			return 0, domainErrorf(op, "undefined below the location shift for shape %v < 1", p.Shape)
		}
		return 0, nil
	}
	if shifted == 0 && p.Shape < 1 {
		return 0, domainErrorf(op, "singular at the location shift for shape %v < 1", p.Shape)
	}
	x := shifted / p.Scale
	f := (p.Shape / p.Scale) * math.Pow(x, p.Shape-1) * math.Exp(-math.Pow(x, p.Shape))
	return checkFinite(op, f)
}

// HazardRate returns the instantaneous failure rate
// h(t) = (shape/scale) * ((t-location)/scale)^(shape-1). Zero before the
// location shift; singular at the shift when shape < 1.
func HazardRate(t float64, p Parameters) (float64, error) {
	const op = "hazard rate"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, domainErrorf(op, "time must be finite, got %v", t)
	}
	shifted := t - p.Location
	if shifted < 0 {
		if p.Shape < 1 {
			return 0, domainErrorf(op, "undefined below the location shift for shape %v < 1", p.Shape)
		}
		return 0, nil
	}
	if shifted == 0 && p.Shape < 1 {
		return 0, domainErrorf(op, "singular at the location shift for shape %v < 1", p.Shape)
	}
	h := (p.Shape / p.Scale) * math.Pow(shifted/p.Scale, p.Shape-1)
	return checkFinite(op, h)
}

// MeanTimeToFailure returns scale * Γ(1 + 1/shape), measured from the
// location shift. math.Gamma gives full double precision here; log-based
// shortcut identities do not and must not be substituted.
func MeanTimeToFailure(p Parameters) (float64, error) {
	const op = "mean time to failure"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	mttf := p.Scale * math.Gamma(1+1/p.Shape)
	return checkFinite(op, mttf)
}

// MedianLife returns scale * (ln 2)^(1/shape), the time by which half of
// a population is expected to have failed, measured from the location
// shift.
func MedianLife(p Parameters) (float64, error) {
	const op = "median life"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	return checkFinite(op, p.Scale*math.Pow(math.Ln2, 1/p.Shape))
}

// B10Life returns the time to 10% cumulative failure probability,
// scale * (ln(10/9))^(1/shape).
func B10Life(p Parameters) (float64, error) {
	const op = "b10 life"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	return checkFinite(op, p.Scale*math.Pow(math.Log(10.0/9.0), 1/p.Shape))
}

// B50Life is the median life by definition. It delegates to MedianLife so
// the two can never drift apart.
func B50Life(p Parameters) (float64, error) {
	return MedianLife(p)
}

func checkFinite(op string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, domainErrorf(op, "result is not finite")
	}
	return v, nil
}
