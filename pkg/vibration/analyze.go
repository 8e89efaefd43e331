package vibration

import (
	"errors"
	"fmt"
)

// PointAssessment is the per-measurement-point result of an analysis run.
type PointAssessment struct {
	Index int     `json:"index"`
	RMS   float64 `json:"rms"`
	Zone  Zone    `json:"zone"`
}

// Assessment summarizes a set of readings. OverallRMS is the maximum
// per-point RMS, not the average: the worst point governs the machine
// condition. Alerts contains one "CRITICAL" line per zone-D point.
type Assessment struct {
	OverallRMS float64           `json:"overallRms"`
	WorstZone  Zone              `json:"worstZone"`
	Points     []PointAssessment `json:"points"`
	Alerts     []string          `json:"alerts"`
}

// Analyze computes RMS and zone for every reading and aggregates them
// into a machine-level assessment. Any malformed reading fails the whole
// run with a *ValidationError naming the offending point.
func Analyze(readings []Reading) (Assessment, error) {
	if len(readings) == 0 {
		return Assessment{}, &ValidationError{Field: "points", Message: "at least one reading required"}
	}
	assessment := Assessment{
		Points: make([]PointAssessment, 0, len(readings)),
		Alerts: []string{},
	}
	for i, r := range readings {
		rms, err := RMSVelocity(r)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return Assessment{}, &ValidationError{
					Field:   fmt.Sprintf("points[%d].%s", i, ve.Field),
					Message: ve.Message,
				}
			}
			return Assessment{}, err
		}
		zone, err := Classify(rms)
		if err != nil {
			return Assessment{}, err
		}
		assessment.Points = append(assessment.Points, PointAssessment{Index: i, RMS: rms, Zone: zone})
		if rms > assessment.OverallRMS || i == 0 {
			assessment.OverallRMS = rms
			assessment.WorstZone = zone
		}
		if zone.Zone == "D" {
			assessment.Alerts = append(assessment.Alerts,
				fmt.Sprintf("CRITICAL: point %d vibration %.2f mm/s RMS in zone D (%s)", i, rms, zone.Label))
		}
	}
	return assessment, nil
}
