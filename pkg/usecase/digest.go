package usecase

import (
	"sort"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// BuildDigest merges agent results into one digest. Pure and deterministic:
// the same result sequence always yields an identical digest.
//
// Findings from successful results are flattened, deduplicated by dedup key
// (the entry with the earliest timestamp wins), and sorted by priority
// descending then timestamp ascending. Failures are attached for audit.
func BuildDigest(runID types.RunID, generatedAt time.Time, results []*model.AgentResult) *model.Digest {
	var findings []*model.Finding
	var failures []*model.Failure
	index := make(map[types.DedupKey]int)

	for _, res := range results {
		if !res.OK() {
			failures = append(failures, res.Failure)
			continue
		}
		for _, f := range res.Findings {
			if i, ok := index[f.DedupKey]; ok {
				if f.Timestamp.Before(findings[i].Timestamp) {
					findings[i] = f
				}
				continue
			}
			index[f.DedupKey] = len(findings)
			findings = append(findings, f)
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Priority.Score() != findings[j].Priority.Score() {
			return findings[i].Priority.Score() > findings[j].Priority.Score()
		}
		return findings[i].Timestamp.Before(findings[j].Timestamp)
	})

	return &model.Digest{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Findings:    findings,
		Failures:    failures,
	}
}
