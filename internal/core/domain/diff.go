package domain

import "sort"

// ChangeEvent records a container whose observed state differs from the prior snapshot.
type ChangeEvent struct {
	Container   string
	Previous    string
	HadPrevious bool
	Current     string
}

// PreviousOrUnknown returns the prior state, or "unknown" if there was none.
func (e ChangeEvent) PreviousOrUnknown() string {
	if !e.HadPrevious {
		return StateUnknown
	}
	return e.Previous
}

// Diff compares the current snapshot against the prior one and returns an
// event for every container in current whose state is new or different.
// Containers present only in prior are not reported: absence from current
// means "not observed", not "gone". Events are ordered by container name.
func Diff(prior, current Snapshot) []ChangeEvent {
	var events []ChangeEvent
	for name, state := range current {
		prev, ok := prior[name]
		if ok && prev == state {
			continue
		}
		events = append(events, ChangeEvent{
			Container:   name,
			Previous:    prev,
			HadPrevious: ok,
			Current:     state,
		})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Container < events[j].Container })
	return events
}
