package domain

import "errors"

// Container states reported by the runtime or derived by the monitor.
const (
	StateHealthy   = "healthy"
	StateUnhealthy = "unhealthy"
	StateRunning   = "running"
	StateExited    = "exited"
	StateDead      = "dead"
	StateNotFound  = "not_found"

	// StateUnknown is shown for a container with no prior entry. It is never persisted.
	StateUnknown = "unknown"
)

// ErrContainerNotFound is returned by an inspector when the runtime has no
// container with the requested identifier.
var ErrContainerNotFound = errors.New("container not found")

// HealthResult is what the runtime reports for one container.
type HealthResult struct {
	Health string `json:"health,omitempty"` // empty when no health check is configured
	Status string `json:"status"`           // running, exited, etc.
}

// State returns the health check verdict if there is one, otherwise the
// lifecycle status.
func (r HealthResult) State() string {
	if r.Health != "" {
		return r.Health
	}
	return r.Status
}

// ContainerState is one entry of a snapshot, used for listing.
type ContainerState struct {
	Name  string `json:"name"`
	State string `json:"state"`
}
