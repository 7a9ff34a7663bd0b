package gantt

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a commitment row.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusActive  Status = "active"
	StatusShipped Status = "shipped"
	StatusStalled Status = "stalled"
)

// shipped and stalled are terminal.
var transitions = map[Status][]Status{
	StatusPlanned: {StatusActive, StatusStalled},
	StatusActive:  {StatusShipped, StatusStalled},
	StatusShipped: {},
	StatusStalled: {},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
// It is consulted both to gate UpdateRowStatus and to offer the set of
// reachable statuses to callers.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses legally reachable from s.
func NextStatuses(s Status) []Status {
	return append([]Status(nil), transitions[s]...)
}

// ValidStatus reports whether s names a known lifecycle state.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

var (
	// ErrRowNotFound is returned when a row id has no match in the store.
	ErrRowNotFound = errors.New("row not found")

	// ErrArtifactRequired rejects shipping a row with no artifact URL.
	ErrArtifactRequired = errors.New("artifact url required to ship")
)

// IllegalTransitionError rejects a lifecycle edge not in the table.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
