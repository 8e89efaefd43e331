package reliability

// CurvePoint is one sample of the reliability curves plotted on asset
// health views. Hazard and Density are nil where the functions are
// singular (shape < 1 at the location shift).
type CurvePoint struct {
	T           float64  `json:"t"`
	Reliability float64  `json:"reliability"`
	Failure     float64  `json:"failure"`
	Hazard      *float64 `json:"hazard,omitempty"`
	Density     *float64 `json:"density,omitempty"`
}

// Curve samples the reliability, cumulative-failure, hazard, and density
// functions at `points` evenly spaced times over [0, horizon] hours.
func Curve(p Parameters, horizon float64, points int) ([]CurvePoint, error) {
	const op = "curve"
	if err := p.validate(op); err != nil {
		return nil, err
	}
	if !(horizon > 0) {
		return nil, domainErrorf(op, "horizon must be strictly positive, got %v", horizon)
	}
	if points < 2 {
		return nil, domainErrorf(op, "at least 2 points required, got %d", points)
	}
	step := horizon / float64(points-1)
	curve := make([]CurvePoint, 0, points)
	for i := 0; i < points; i++ {
		t := float64(i) * step
		r, err := Reliability(t, p)
		if err != nil {
			return nil, err
		}
		cp := CurvePoint{T: t, Reliability: r, Failure: 1 - r}
		if h, err := HazardRate(t, p); err == nil {
			cp.Hazard = &h
		}
		if f, err := FailureDensity(t, p); err == nil {
			cp.Density = &f
		}
		curve = append(curve, cp)
	}
	return curve, nil
}
