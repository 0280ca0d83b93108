package model

import (
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// Failure describes one failed agent invocation
type Failure struct {
	Agent     types.AgentID   `firestore:"agent" json:"agent"`
	Kind      types.ErrorKind `firestore:"kind" json:"kind"`
	Message   string          `firestore:"message" json:"message"`
	Retryable bool            `firestore:"retryable" json:"retryable"`
}

// AgentResult is the outcome of one agent invocation: zero-or-more findings
// or exactly one failure, never both.
type AgentResult struct {
	Agent    types.AgentID
	Findings []*Finding
	Failure  *Failure
}

// NewFindings builds a successful result carrying the given findings
func NewFindings(agent types.AgentID, findings []*Finding) *AgentResult {
	return &AgentResult{
		Agent:    agent,
		Findings: findings,
	}
}

// NewFailure builds a failed result from err, classified by its error tags
func NewFailure(agent types.AgentID, err error) *AgentResult {
	kind := types.ErrorKindOf(err)
	return &AgentResult{
		Agent: agent,
		Failure: &Failure{
			Agent:     agent,
			Kind:      kind,
			Message:   err.Error(),
			Retryable: kind.Retryable(),
		},
	}
}

// OK reports whether the invocation succeeded
func (r *AgentResult) OK() bool {
	return r.Failure == nil
}
