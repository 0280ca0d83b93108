package types

import "fmt"

// RunStatus represents the state of a daily run.
//
// Lifecycle: PENDING -> RUNNING -> AGGREGATING -> DELIVERING -> terminal.
// COMPLETED, DEGRADED and FAILED are terminal. A run that loses every agent
// skips DELIVERING and ends FAILED directly from AGGREGATING.
type RunStatus string

const (
	RunStatusPending     RunStatus = "PENDING"
	RunStatusRunning     RunStatus = "RUNNING"
	RunStatusAggregating RunStatus = "AGGREGATING"
	RunStatusDelivering  RunStatus = "DELIVERING"
	RunStatusCompleted   RunStatus = "COMPLETED"
	RunStatusDegraded    RunStatus = "DEGRADED"
	RunStatusFailed      RunStatus = "FAILED"
)

// AllRunStatuses returns all valid run statuses
func AllRunStatuses() []RunStatus {
	return []RunStatus{
		RunStatusPending,
		RunStatusRunning,
		RunStatusAggregating,
		RunStatusDelivering,
		RunStatusCompleted,
		RunStatusDegraded,
		RunStatusFailed,
	}
}

// IsValid checks if the run status is valid
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusAggregating,
		RunStatusDelivering, RunStatusCompleted, RunStatusDegraded, RunStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is a terminal state
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusDegraded, RunStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a transition from s to next is allowed
func (s RunStatus) CanTransition(next RunStatus) bool {
	switch s {
	case RunStatusPending:
		return next == RunStatusRunning
	case RunStatusRunning:
		return next == RunStatusAggregating
	case RunStatusAggregating:
		return next == RunStatusDelivering || next == RunStatusFailed
	case RunStatusDelivering:
		return next == RunStatusCompleted || next == RunStatusDegraded || next == RunStatusFailed
	default:
		return false
	}
}

// String returns the string representation of the run status
func (s RunStatus) String() string {
	return string(s)
}

// ParseRunStatus parses a string into a RunStatus
func ParseRunStatus(s string) (RunStatus, error) {
	status := RunStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid run status: %s", s)
	}
	return status, nil
}
