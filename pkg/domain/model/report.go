package model

import (
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// AgentOutcome records how one agent invocation ended
type AgentOutcome struct {
	Success      bool          `firestore:"success" json:"success"`
	FindingCount int           `firestore:"finding_count" json:"finding_count"`
	Failure      *Failure      `firestore:"failure,omitempty" json:"failure,omitempty"`
	Duration     time.Duration `firestore:"duration" json:"duration"`
}

// DeliveryAttempt records one dispatcher attempt against the sink
type DeliveryAttempt struct {
	Attempt   int       `firestore:"attempt" json:"attempt"`
	At        time.Time `firestore:"at" json:"at"`
	Succeeded bool      `firestore:"succeeded" json:"succeeded"`
	Error     string    `firestore:"error,omitempty" json:"error,omitempty"`
	Retryable bool      `firestore:"retryable" json:"retryable"`
}

// RunReport is the terminal record of one daily run. It is constructed only
// after every agent task has settled and never mutated afterwards; it exists
// for observability, not control flow.
type RunReport struct {
	RunID            types.RunID                     `firestore:"run_id" json:"run_id"`
	Status           types.RunStatus                 `firestore:"status" json:"status"`
	StartedAt        time.Time                       `firestore:"started_at" json:"started_at"`
	FinishedAt       time.Time                       `firestore:"finished_at" json:"finished_at"`
	Delivered        bool                            `firestore:"delivered" json:"delivered"`
	AgentOutcomes    map[types.AgentID]*AgentOutcome `firestore:"-" json:"agent_outcomes"`
	DeliveryAttempts []DeliveryAttempt               `firestore:"delivery_attempts" json:"delivery_attempts"`

	// Digest is retained read-only for audit. Nil when the run failed before
	// aggregation produced anything deliverable.
	Digest *Digest `firestore:"digest,omitempty" json:"digest,omitempty"`
}

// FailedAgents returns the IDs of agents that failed, in no particular order
func (r *RunReport) FailedAgents() []types.AgentID {
	var failed []types.AgentID
	for id, outcome := range r.AgentOutcomes {
		if !outcome.Success {
			failed = append(failed, id)
		}
	}
	return failed
}
