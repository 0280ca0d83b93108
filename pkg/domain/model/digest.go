package model

import (
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// Digest is the merged, ordered, deduplicated collection of findings for one
// run. Built once per run and read-only afterwards; delivery retries reuse
// the same value so at most one logically distinct digest leaves per run.
type Digest struct {
	RunID       types.RunID `firestore:"run_id" json:"run_id"`
	GeneratedAt time.Time   `firestore:"generated_at" json:"generated_at"`
	Findings    []*Finding  `firestore:"findings" json:"findings"`
	Failures    []*Failure  `firestore:"failures" json:"failures"`
}

// CountByAgent returns the number of findings contributed per agent
func (d *Digest) CountByAgent() map[types.AgentID]int {
	counts := make(map[types.AgentID]int)
	for _, f := range d.Findings {
		counts[f.Agent]++
	}
	return counts
}
