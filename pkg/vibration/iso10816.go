package vibration

import (
	"encoding/json"
	"fmt"
	"math"
)

// Zone is one severity band of the ISO 10816 table. Max is the upper RMS
// velocity bound in mm/s; zone D is unbounded.
type Zone struct {
	Zone  string  `json:"zone"`
	Label string  `json:"label"`
	Max   float64 `json:"max"`
}

// ISO 10816-3 group 1 (large machines on rigid foundations), mm/s RMS.
// The single authoritative table: classification and severity ordering
// both derive from it.
var zoneTable = []Zone{
	{Zone: "A", Label: "newly commissioned condition", Max: 1.8},
	{Zone: "B", Label: "acceptable for unrestricted long-term operation", Max: 4.5},
	{Zone: "C", Label: "unsatisfactory, restricted operation only", Max: 11.2},
	{Zone: "D", Label: "vibration causing damage", Max: math.Inf(1)},
}

// MarshalJSON omits the upper bound for the unbounded zone D, since
// encoding/json cannot represent +Inf.
func (z Zone) MarshalJSON() ([]byte, error) {
	out := struct {
		Zone  string   `json:"zone"`
		Label string   `json:"label"`
		Max   *float64 `json:"max,omitempty"`
	}{Zone: z.Zone, Label: z.Label}
	if !math.IsInf(z.Max, 1) {
		out.Max = &z.Max
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores an absent upper bound as +Inf.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var in struct {
		Zone  string   `json:"zone"`
		Label string   `json:"label"`
		Max   *float64 `json:"max"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	z.Zone = in.Zone
	z.Label = in.Label
	if in.Max != nil {
		z.Max = *in.Max
	} else {
		z.Max = math.Inf(1)
	}
	return nil
}

// Zones returns a copy of the severity table in ascending order.
func Zones() []Zone {
	out := make([]Zone, len(zoneTable))
	copy(out, zoneTable)
	return out
}

// Classify maps an RMS velocity onto its ISO 10816 zone: the first band
// whose upper bound covers the value, scanning in ascending order.
func Classify(rms float64) (Zone, error) {
	if math.IsNaN(rms) || math.IsInf(rms, 0) {
		return Zone{}, &ValidationError{Field: "rms", Message: "value is not finite"}
	}
	if rms < 0 {
		return Zone{}, &ValidationError{Field: "rms", Message: fmt.Sprintf("velocity must be non-negative, got %v", rms)}
	}
	for _, z := range zoneTable {
		if rms <= z.Max {
			return z, nil
		}
	}
	// unreachable: zone D is unbounded
	return zoneTable[len(zoneTable)-1], nil
}

// Severity returns the rank of a zone in the table, 0 for A. Unknown
// zones rank past the table end.
func Severity(zone string) int {
	for i, z := range zoneTable {
		if z.Zone == zone {
			return i
		}
	}
	return len(zoneTable)
}
