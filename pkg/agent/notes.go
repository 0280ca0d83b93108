package agent

import (
	"context"
	"strings"

	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// MeetingNotes extracts action items and decisions from recent meeting
// transcripts. A transcript yielding zero items is a success with no
// findings, not a failure.
type MeetingNotes struct {
	source    interfaces.TranscriptSource
	processor interfaces.TranscriptProcessor
}

// NewMeetingNotes creates the meeting notes agent
func NewMeetingNotes(source interfaces.TranscriptSource, processor interfaces.TranscriptProcessor) *MeetingNotes {
	return &MeetingNotes{
		source:    source,
		processor: processor,
	}
}

func (a *MeetingNotes) ID() types.AgentID {
	return types.AgentMeetingNotes
}

func (a *MeetingNotes) Run(ctx context.Context, rc *RunContext) *model.AgentResult {
	return runGuarded(ctx, a.ID(), func(ctx context.Context) ([]*model.Finding, error) {
		return a.collect(ctx, rc)
	})
}

func (a *MeetingNotes) collect(ctx context.Context, rc *RunContext) ([]*model.Finding, error) {
	transcripts, err := a.source.FetchRecent(ctx, rc.Now.Add(-rc.Window))
	if err != nil {
		return nil, err
	}

	var findings []*model.Finding
	for _, tr := range transcripts {
		extraction, err := a.processor.Extract(ctx, tr.Text)
		if err != nil {
			return nil, err
		}
		if extraction.Empty() {
			continue
		}

		findings = append(findings, a.transcriptFindings(tr, extraction)...)
	}

	return capFindings(findings, rc.MaxFindings), nil
}

func (a *MeetingNotes) transcriptFindings(tr *model.Transcript, ex *model.Extraction) []*model.Finding {
	// Items with identical normalized text within one transcript collapse
	// into a single finding.
	seen := make(map[string]bool)
	var findings []*model.Finding

	add := func(kind types.FindingKind, priority types.Priority, keyPrefix, text string) {
		norm := normalizeItem(text)
		if norm == "" || seen[keyPrefix+norm] {
			return
		}
		seen[keyPrefix+norm] = true

		findings = append(findings, &model.Finding{
			Agent:     a.ID(),
			Kind:      kind,
			Title:     text,
			Body:      "From meeting: " + tr.Title,
			Priority:  priority,
			Timestamp: tr.RecordedAt,
			DedupKey:  types.DedupKey(keyPrefix + tr.ID + ":" + norm),
		})
	}

	for _, item := range ex.ActionItems {
		add(types.FindingActionItem, types.PriorityHigh, "action:", item)
	}
	for _, decision := range ex.Decisions {
		add(types.FindingNote, types.PriorityNormal, "decision:", decision)
	}

	return findings
}

// normalizeItem lowercases and collapses whitespace for dedup comparison
func normalizeItem(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
