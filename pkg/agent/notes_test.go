package agent_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/daybreak/pkg/agent"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

type stubTranscriptSource struct {
	transcripts []*model.Transcript
	err         error
}

func (s *stubTranscriptSource) FetchRecent(ctx context.Context, since time.Time) ([]*model.Transcript, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.transcripts, nil
}

type stubProcessor struct {
	extractions map[string]*model.Extraction
	err         error
}

func (s *stubProcessor) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	if s.err != nil {
		return nil, s.err
	}
	if ex, ok := s.extractions[text]; ok {
		return ex, nil
	}
	return &model.Extraction{}, nil
}

func TestMeetingNotes_ExtractsActionItemsAndDecisions(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	recorded := now.Add(-2 * time.Hour)

	source := &stubTranscriptSource{transcripts: []*model.Transcript{
		{ID: "tr1", Title: "Sprint sync", Text: "sync transcript", RecordedAt: recorded},
	}}
	processor := &stubProcessor{extractions: map[string]*model.Extraction{
		"sync transcript": {
			ActionItems: []string{"Ship the fix by Friday"},
			Decisions:   []string{"Adopt the new rollout plan"},
		},
	}}

	a := agent.NewMeetingNotes(source, processor)
	result := a.Run(context.Background(), &agent.RunContext{Now: now, Window: 24 * time.Hour})

	gt.Bool(t, result.OK()).True()
	gt.Array(t, result.Findings).Length(2)

	action := result.Findings[0]
	gt.Value(t, action.Kind).Equal(types.FindingActionItem)
	gt.Value(t, action.Priority).Equal(types.PriorityHigh)
	gt.Value(t, action.Title).Equal("Ship the fix by Friday")
	gt.Value(t, action.Timestamp).Equal(recorded)

	decision := result.Findings[1]
	gt.Value(t, decision.Kind).Equal(types.FindingNote)
	gt.Value(t, decision.Priority).Equal(types.PriorityNormal)
}

func TestMeetingNotes_DedupWithinTranscript(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	source := &stubTranscriptSource{transcripts: []*model.Transcript{
		{ID: "tr1", Title: "Sync", Text: "text", RecordedAt: now.Add(-time.Hour)},
	}}
	processor := &stubProcessor{extractions: map[string]*model.Extraction{
		"text": {
			ActionItems: []string{
				"Update the runbook",
				"update   the RUNBOOK",
				"Update the dashboard",
			},
		},
	}}

	a := agent.NewMeetingNotes(source, processor)
	result := a.Run(context.Background(), &agent.RunContext{Now: now, Window: 24 * time.Hour})

	gt.Bool(t, result.OK()).True()
	// Case and whitespace variants of the same item collapse
	gt.Array(t, result.Findings).Length(2)
}

func TestMeetingNotes_EmptyExtractionIsSuccess(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	source := &stubTranscriptSource{transcripts: []*model.Transcript{
		{ID: "tr1", Title: "Status", Text: "nothing actionable", RecordedAt: now.Add(-time.Hour)},
	}}
	processor := &stubProcessor{}

	a := agent.NewMeetingNotes(source, processor)
	result := a.Run(context.Background(), &agent.RunContext{Now: now, Window: 24 * time.Hour})

	gt.Bool(t, result.OK()).True()
	gt.Array(t, result.Findings).Length(0)
}

func TestMeetingNotes_ProcessorErrorFailsAgent(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	source := &stubTranscriptSource{transcripts: []*model.Transcript{
		{ID: "tr1", Title: "Sync", Text: "text", RecordedAt: now.Add(-time.Hour)},
	}}
	processor := &stubProcessor{err: goerr.New("malformed response", goerr.T(types.ErrTagProcessing))}

	a := agent.NewMeetingNotes(source, processor)
	result := a.Run(context.Background(), &agent.RunContext{Now: now, Window: 24 * time.Hour})

	gt.Bool(t, result.OK()).False()
	gt.Value(t, result.Failure.Kind).Equal(types.ErrorKindProcessing)
	gt.Bool(t, result.Failure.Retryable).False()
}

func TestMeetingNotes_SourceErrorFailsAgent(t *testing.T) {
	source := &stubTranscriptSource{err: goerr.New("dial failed", goerr.T(types.ErrTagConnectivity))}

	a := agent.NewMeetingNotes(source, &stubProcessor{})
	result := a.Run(context.Background(), &agent.RunContext{Now: time.Now().UTC(), Window: 24 * time.Hour})

	gt.Bool(t, result.OK()).False()
	gt.Value(t, result.Failure.Kind).Equal(types.ErrorKindConnectivity)
}
