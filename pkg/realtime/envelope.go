// Package realtime implements the push-channel client used for live
// dashboard updates: typed event envelopes over a persistent connection,
// per-topic subscriber callbacks, and bounded automatic reconnection.
package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vibracore/pkg/vibration"
)

// EventType tags an envelope with its payload variant.
type EventType string

const (
	EventSensorData       EventType = "sensor_data"
	EventPredictionUpdate EventType = "prediction_update"
	EventAlertNew         EventType = "alert_new"
	EventAnomalyDetected  EventType = "anomaly_detected"
	EventModelStatus      EventType = "model_status"
)

// ParseEventType normalizes a topic name to its EventType. The second
// return is false for types this client version does not know.
func ParseEventType(s string) (EventType, bool) {
	switch EventType(strings.ToLower(strings.TrimSpace(s))) {
	case EventSensorData:
		return EventSensorData, true
	case EventPredictionUpdate:
		return EventPredictionUpdate, true
	case EventAlertNew:
		return EventAlertNew, true
	case EventAnomalyDetected:
		return EventAnomalyDetected, true
	case EventModelStatus:
		return EventModelStatus, true
	default:
		return "", false
	}
}

// Envelope is the wire shape of a push message.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload value into an envelope.
func NewEnvelope(t EventType, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Envelope{Type: t, Payload: data}, nil
}

// SensorData is a live channel reading from one measurement point.
type SensorData struct {
	EquipmentID string            `json:"equipmentId"`
	PointID     string            `json:"pointId"`
	Reading     vibration.Reading `json:"reading"`
	TS          time.Time         `json:"ts"`
}

// PredictionUpdate carries a refreshed failure prediction.
type PredictionUpdate struct {
	EquipmentID        string    `json:"equipmentId"`
	FailureProbability float64   `json:"failureProbability"`
	RemainingHours     float64   `json:"remainingHours"`
	TS                 time.Time `json:"ts"`
}

// Alert is a newly raised condition alert.
type Alert struct {
	ID          string    `json:"id"`
	EquipmentID string    `json:"equipmentId"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	TS          time.Time `json:"ts"`
}

// Anomaly reports an out-of-baseline observation on one parameter.
type Anomaly struct {
	EquipmentID string    `json:"equipmentId"`
	Parameter   string    `json:"parameter"`
	Score       float64   `json:"score"`
	TS          time.Time `json:"ts"`
}

// ModelStatus reports a prediction-model lifecycle change.
type ModelStatus struct {
	ModelID  string    `json:"modelId"`
	Status   string    `json:"status"`
	Accuracy float64   `json:"accuracy,omitempty"`
	TS       time.Time `json:"ts"`
}

// Event is the decoded form of an envelope: Type selects which payload
// field is set, all others are nil.
type Event struct {
	Type       EventType
	Sensor     *SensorData
	Prediction *PredictionUpdate
	Alert      *Alert
	Anomaly    *Anomaly
	Model      *ModelStatus
}

// DecodeEnvelope validates and decodes a wire message into a typed
// event. Unknown types return known=false and no error: they are dropped
// for forward compatibility, not failed.
func DecodeEnvelope(data []byte) (evt Event, known bool, err error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, false, fmt.Errorf("decode envelope: %w", err)
	}
	t, ok := ParseEventType(string(env.Type))
	if !ok {
		return Event{}, false, nil
	}
	evt = Event{Type: t}
	switch t {
	case EventSensorData:
		evt.Sensor = &SensorData{}
		err = json.Unmarshal(env.Payload, evt.Sensor)
	case EventPredictionUpdate:
		evt.Prediction = &PredictionUpdate{}
		err = json.Unmarshal(env.Payload, evt.Prediction)
	case EventAlertNew:
		evt.Alert = &Alert{}
		err = json.Unmarshal(env.Payload, evt.Alert)
	case EventAnomalyDetected:
		evt.Anomaly = &Anomaly{}
		err = json.Unmarshal(env.Payload, evt.Anomaly)
	case EventModelStatus:
		evt.Model = &ModelStatus{}
		err = json.Unmarshal(env.Payload, evt.Model)
	}
	if err != nil {
		return Event{}, false, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return evt, true, nil
}
