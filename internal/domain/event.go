package domain

import "fmt"

// EventType identifies the outcome an Event records
type EventType string

const (
	LookupSuccess        EventType = "lookup_success"
	LookupFailure        EventType = "lookup_failure"
	SearchProductSuccess EventType = "search_product_success"
	SearchProductFailure EventType = "search_product_failure"
	BarcodeScanFailure   EventType = "barcode_scan_failure"
	NonNumericalValue    EventType = "non_numerical_value"
)

// AllEventTypes lists every event type in dashboard order
var AllEventTypes = []EventType{
	LookupSuccess,
	LookupFailure,
	BarcodeScanFailure,
	NonNumericalValue,
	SearchProductSuccess,
	SearchProductFailure,
}

// Valid reports whether t is one of the known event types
func (t EventType) Valid() bool {
	for _, known := range AllEventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseEventType converts a raw string into a known EventType
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type: %s", s)
	}
	return t, nil
}

// Event is an immutable record of a lookup, search or scan outcome.
// Empty SubjectKey and Detail are stored as NULL.
type Event struct {
	ID         int64
	Type       EventType
	Timestamp  int64
	SubjectKey string
	Detail     string
}
