package domain

import "go.trai.ch/zerr"

// AdapterStatus is the operational state of a network adapter.
type AdapterStatus uint8

const (
	// AdapterUnknown is used when the state could not be determined, or the adapter vanished.
	AdapterUnknown AdapterStatus = iota
	// AdapterUp indicates the adapter has link.
	AdapterUp
	// AdapterDown indicates the adapter is enabled but has no link.
	AdapterDown
	// AdapterDisabled indicates the adapter is administratively disabled.
	AdapterDisabled
)

var adapterStatusNames = map[AdapterStatus]string{
	AdapterUnknown:  "Unknown",
	AdapterUp:       "Up",
	AdapterDown:     "Down",
	AdapterDisabled: "Disabled",
}

// String returns the status name.
func (s AdapterStatus) String() string {
	if name, ok := adapterStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s AdapterStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AdapterStatus) UnmarshalText(text []byte) error {
	for status, name := range adapterStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return zerr.With(zerr.New("unknown adapter status"), "status", string(text))
}

// AdapterState is a point-in-time snapshot of one adapter.
type AdapterState struct {
	Name   string        `json:"name"`
	Status AdapterStatus `json:"status"`
	// LinkSpeed is in bits per second.
	LinkSpeed uint64 `json:"linkSpeed"`
}

// AdapterChange compares one adapter across a network reset.
type AdapterChange struct {
	Name    string       `json:"name"`
	Before  AdapterState `json:"before"`
	After   AdapterState `json:"after"`
	Changed bool         `json:"changed"`
}

// NetworkReport is the output of a network reset.
type NetworkReport struct {
	Changes []AdapterChange `json:"changes"`
}

// ChangedCount returns the number of adapters whose status differs.
func (r *NetworkReport) ChangedCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, c := range r.Changes {
		if c.Changed {
			n++
		}
	}
	return n
}
