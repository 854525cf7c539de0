package baggage

import (
	"fmt"
	"strings"

	"baggage/internal/pkg/errs"
)

// Status is a lifecycle stage of a baggage item.
// Wire codes (String) are stable and stored as-is in the database.
type Status int

const (
	// Unknown catches uninitialised values and is never valid.
	Unknown Status = iota

	// DroppedOff is the stage of a freshly created record and of a record released from hold.
	DroppedOff
	// SecurityCleared follows a passed X-ray scan.
	SecurityCleared
	// Sorted means the item is on the conveyor towards its flight's gate.
	Sorted
	// CBRReady means the item waits in a container, cart or bag for loading.
	CBRReady
	// Loaded is the last automated ground-handling stage.
	Loaded

	// Transit, Arrived and Delivered are set manually once the aircraft has the item.
	Transit
	Arrived
	Delivered

	// Lost, Damaged and Misrouted are irregularities recorded manually.
	Lost
	Damaged
	Misrouted

	// HeldForInspection pauses automated processing until an administrator releases the item.
	HeldForInspection
)

func getStatusCodes() map[Status]string {
	return map[Status]string{
		DroppedOff:        "DROPPED_OFF",
		SecurityCleared:   "SECURITY_CLEARED",
		Sorted:            "SORTED",
		CBRReady:          "CBR_READY",
		Loaded:            "LOADED",
		Transit:           "TRANSIT",
		Arrived:           "ARRIVED",
		Delivered:         "DELIVERED",
		Lost:              "LOST",
		Damaged:           "DAMAGED",
		Misrouted:         "MISROUTED",
		HeldForInspection: "HELD_FOR_INSPECTION",
	}
}

func getStatusDisplayNames() map[Status]string {
	return map[Status]string{
		DroppedOff:        "Dropped Off",
		SecurityCleared:   "Security Cleared",
		Sorted:            "Sorted",
		CBRReady:          "CBR Ready (Container/Cart/Bag Ready)",
		Loaded:            "Loaded onto Flight",
		Transit:           "In Transit (On Flight)",
		Arrived:           "Arrived at Destination",
		Delivered:         "Delivered to Passenger",
		Lost:              "Lost",
		Damaged:           "Damaged",
		Misrouted:         "Misrouted",
		HeldForInspection: "Held for Inspection",
	}
}

// AllStatuses returns every valid status in declaration order.
func AllStatuses() []Status {
	return []Status{
		DroppedOff, SecurityCleared, Sorted, CBRReady, Loaded,
		Transit, Arrived, Delivered,
		Lost, Damaged, Misrouted,
		HeldForInspection,
	}
}

// ParseStatus resolves a wire code such as "CBR_READY". Matching ignores case and surrounding spaces.
func ParseStatus(code string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for status, c := range getStatusCodes() {
		if c == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", code))
}

// Validate rejects Unknown and values outside the vocabulary.
func (s Status) Validate() error {
	if _, ok := getStatusCodes()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire code, or "UNKNOWN".
func (s Status) String() string {
	if code, ok := getStatusCodes()[s]; ok {
		return code
	}
	return "UNKNOWN"
}

// DisplayName returns the label shown to operators.
func (s Status) DisplayName() string {
	if name, ok := getStatusDisplayNames()[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler using the wire code.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseStatus.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
