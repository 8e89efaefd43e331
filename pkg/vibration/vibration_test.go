package vibration

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestRMSVelocityAllChannels(t *testing.T) {
	r := Reading{VelocityVertical: ptr(2.0), VelocityHorizontal: ptr(1.8), VelocityAxial: ptr(1.9)}
	rms, err := RMSVelocity(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(rms-1.9) > 0.1 {
		t.Fatalf("expected rms ~1.9 got %v", rms)
	}
}

func TestRMSVelocityZeroAxialCounts(t *testing.T) {
	// axial=0 is present and participates in the mean.
	r := Reading{VelocityVertical: ptr(3), VelocityHorizontal: ptr(4), VelocityAxial: ptr(0)}
	rms, err := RMSVelocity(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Sqrt((9.0 + 16.0 + 0.0) / 3.0)
	if math.Abs(rms-want) > 1e-12 {
		t.Fatalf("expected rms %v got %v", want, rms)
	}
}

func TestRMSVelocityMissingChannelsExcluded(t *testing.T) {
	r := Reading{VelocityVertical: ptr(3), VelocityHorizontal: ptr(4)}
	rms, err := RMSVelocity(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Sqrt((9.0 + 16.0) / 2.0)
	if math.Abs(rms-want) > 1e-12 {
		t.Fatalf("expected rms %v got %v", want, rms)
	}
}

func TestRMSVelocityRejectsEmptyReading(t *testing.T) {
	if _, err := RMSVelocity(Reading{Temperature: ptr(65)}); !isValidationError(err) {
		t.Fatalf("expected ValidationError got %v", err)
	}
}

func TestRMSVelocityRejectsBadValues(t *testing.T) {
	cases := []Reading{
		{VelocityVertical: ptr(-1)},
		{VelocityHorizontal: ptr(math.NaN())},
		{VelocityAxial: ptr(math.Inf(1))},
	}
	for _, r := range cases {
		if _, err := RMSVelocity(r); !isValidationError(err) {
			t.Fatalf("expected ValidationError for %+v got %v", r, err)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		rms  float64
		zone string
	}{
		{0, "A"},
		{1.8, "A"},
		{1.81, "B"},
		{4.5, "B"},
		{4.51, "C"},
		{11.2, "C"},
		{11.3, "D"},
		{1000, "D"},
	}
	for _, tc := range cases {
		zone, err := Classify(tc.rms)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc.rms, err)
		}
		if zone.Zone != tc.zone {
			t.Fatalf("expected zone %s for rms %v got %s", tc.zone, tc.rms, zone.Zone)
		}
	}
}

func TestClassifyMonotonicSeverity(t *testing.T) {
	values := []float64{0, 0.5, 1.8, 2.0, 4.5, 5.0, 11.2, 12.0, 50}
	prev := -1
	for _, v := range values {
		zone, err := Classify(v)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", v, err)
		}
		sev := Severity(zone.Zone)
		if sev < prev {
			t.Fatalf("severity decreased at rms %v", v)
		}
		prev = sev
	}
}

func TestClassifyRejectsBadInput(t *testing.T) {
	for _, v := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := Classify(v); !isValidationError(err) {
			t.Fatalf("expected ValidationError for %v got %v", v, err)
		}
	}
}

func TestZonesAscending(t *testing.T) {
	zones := Zones()
	if len(zones) != 4 {
		t.Fatalf("expected 4 zones got %d", len(zones))
	}
	for i := 1; i < len(zones); i++ {
		if zones[i].Max <= zones[i-1].Max {
			t.Fatalf("zone thresholds not strictly increasing at %s", zones[i].Zone)
		}
	}
	if !math.IsInf(zones[len(zones)-1].Max, 1) {
		t.Fatalf("zone D must be unbounded")
	}
}

func TestZoneJSONUnboundedD(t *testing.T) {
	zones := Zones()
	data, err := json.Marshal(zones[3])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), "max") {
		t.Fatalf("zone D must omit its upper bound on the wire: %s", data)
	}
	var back Zone
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsInf(back.Max, 1) {
		t.Fatalf("expected +Inf restored got %v", back.Max)
	}
}

func TestAnalyzeWorstPointGoverns(t *testing.T) {
	readings := []Reading{
		{VelocityVertical: ptr(1.0), VelocityHorizontal: ptr(1.2), VelocityAxial: ptr(0.9)},
		{VelocityVertical: ptr(6.0), VelocityHorizontal: ptr(5.5), VelocityAxial: ptr(6.2)},
		{VelocityVertical: ptr(2.0)},
	}
	a, err := Analyze(readings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Points) != 3 {
		t.Fatalf("expected 3 point assessments got %d", len(a.Points))
	}
	if a.WorstZone.Zone != "C" {
		t.Fatalf("expected worst zone C got %s", a.WorstZone.Zone)
	}
	if a.OverallRMS != a.Points[1].RMS {
		t.Fatalf("overall rms should be the max per-point rms, got %v want %v", a.OverallRMS, a.Points[1].RMS)
	}
	if len(a.Alerts) != 0 {
		t.Fatalf("expected no alerts below zone D got %v", a.Alerts)
	}
}

func TestAnalyzeCriticalAlertForZoneD(t *testing.T) {
	readings := []Reading{
		{VelocityVertical: ptr(1.0)},
		{VelocityVertical: ptr(15.0), VelocityHorizontal: ptr(14.0)},
	}
	a, err := Analyze(readings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.WorstZone.Zone != "D" {
		t.Fatalf("expected worst zone D got %s", a.WorstZone.Zone)
	}
	if len(a.Alerts) != 1 {
		t.Fatalf("expected one alert got %d", len(a.Alerts))
	}
	if !strings.Contains(a.Alerts[0], "CRITICAL") {
		t.Fatalf("alert must contain CRITICAL: %q", a.Alerts[0])
	}
}

func TestAnalyzeNamesOffendingPoint(t *testing.T) {
	readings := []Reading{
		{VelocityVertical: ptr(1.0)},
		{VelocityVertical: ptr(-3.0)},
	}
	_, err := Analyze(readings)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError got %v", err)
	}
	if !strings.Contains(ve.Field, "points[1]") {
		t.Fatalf("expected error to name point 1, got field %q", ve.Field)
	}
}

func TestAnalyzeEmptySet(t *testing.T) {
	if _, err := Analyze(nil); !isValidationError(err) {
		t.Fatalf("expected ValidationError got %v", err)
	}
}

func isValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
