package enums

import "fmt"

// EventType identifies the kind of ledger event appended to a game session.
type EventType string

const (
	EventTypeDealerPay   EventType = "dealer_pay"
	EventTypeRoundEnd    EventType = "round_end"
	EventTypeGiroChiuso  EventType = "giro_chiuso"
	EventTypeManualEntry EventType = "manual_entry"
)

var validEventTypes = []EventType{
	EventTypeDealerPay,
	EventTypeRoundEnd,
	EventTypeGiroChiuso,
	EventTypeManualEntry,
}

// IsValid reports whether the value matches the canonical event type enum.
func (t EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
