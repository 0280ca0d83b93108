package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// Finding is one discrete unit of information an agent contributes to the
// daily digest. A finding is immutable once created; ownership moves from
// the producing agent to the coordinator, then to the digest.
type Finding struct {
	Agent     types.AgentID   `firestore:"agent" json:"agent"`
	Kind      types.FindingKind `firestore:"kind" json:"kind"`
	Title     string          `firestore:"title" json:"title"`
	Body      string          `firestore:"body" json:"body"`
	Priority  types.Priority  `firestore:"priority" json:"priority"`
	Timestamp time.Time       `firestore:"timestamp" json:"timestamp"`
	DedupKey  types.DedupKey  `firestore:"dedup_key" json:"dedup_key"`
}

// Validate checks if the finding is well-formed
func (f *Finding) Validate() error {
	if !f.Agent.IsValid() {
		return goerr.New("invalid agent ID", goerr.V("agent", f.Agent))
	}
	if !f.Kind.IsValid() {
		return goerr.New("invalid finding kind", goerr.V("kind", f.Kind))
	}
	if f.Title == "" {
		return goerr.New("finding title is required")
	}
	if !f.Priority.IsValid() {
		return goerr.New("invalid priority", goerr.V("priority", f.Priority))
	}
	if f.Timestamp.IsZero() {
		return goerr.New("finding timestamp is required")
	}
	if f.DedupKey == "" {
		return goerr.New("dedup key is required")
	}
	return nil
}
