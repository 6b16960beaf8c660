package domain

import "fmt"

// Marker tags a notification as good or bad news.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerOK
	MarkerAlert
)

func (m Marker) String() string {
	switch m {
	case MarkerOK:
		return "🟢"
	case MarkerAlert:
		return "🔴"
	default:
		return ""
	}
}

// FirstRunMarker classifies a state for the baseline notification sent on the first cycle.
func FirstRunMarker(state string) Marker {
	switch state {
	case StateHealthy, StateRunning:
		return MarkerOK
	default:
		return MarkerAlert
	}
}

// ChangeMarker classifies a state transition by its new state. MarkerNone
// means the transition is not worth pushing.
func ChangeMarker(state string) Marker {
	switch state {
	case StateUnhealthy, StateExited, StateDead, StateNotFound:
		return MarkerAlert
	case StateHealthy:
		return MarkerOK
	default:
		return MarkerNone
	}
}

// StateMessage is the first-run text for a container.
func StateMessage(name, state string) string {
	return fmt.Sprintf("Container '%s' state: %s", name, state)
}

// ChangeMessage is the text for a state transition.
func ChangeMessage(e ChangeEvent) string {
	return fmt.Sprintf("Container '%s' state changed from '%s' to '%s'", e.Container, e.PreviousOrUnknown(), e.Current)
}

// Tag prefixes text with the marker.
func Tag(m Marker, text string) string {
	if m == MarkerNone {
		return text
	}
	return m.String() + " " + text
}
