package domain

import (
	"sort"
	"time"
)

// Snapshot maps container identifiers to the state observed at the end of a cycle.
type Snapshot map[string]string

// Clone returns an independent copy. A nil snapshot clones to an empty one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether both snapshots hold the same entries.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Entries returns the snapshot as a list sorted by container name.
func (s Snapshot) Entries() []ContainerState {
	out := make([]ContainerState, 0, len(s))
	for name, state := range s {
		out = append(out, ContainerState{Name: name, State: state})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Status describes the last completed cycle.
type Status struct {
	Snapshot  Snapshot  `json:"-"`
	CheckedAt time.Time `json:"checked_at"`
	FirstRun  bool      `json:"first_run"`
	Cycles    uint64    `json:"cycles"`
}
