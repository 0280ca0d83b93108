package slack

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	goslack "github.com/slack-go/slack"
)

func sampleDigest() *model.Digest {
	generatedAt := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	return &model.Digest{
		RunID:       types.NewRunID(),
		GeneratedAt: generatedAt,
		Findings: []*model.Finding{
			{
				Agent:     types.AgentEmail,
				Kind:      types.FindingSummary,
				Title:     "Quarterly numbers",
				Body:      "From: cfo@example.com",
				Priority:  types.PriorityUrgent,
				Timestamp: generatedAt,
				DedupKey:  "email:1",
			},
			{
				Agent:     types.AgentCalendar,
				Kind:      types.FindingReminder,
				Title:     "Design review",
				Priority:  types.PriorityHigh,
				Timestamp: generatedAt,
				DedupKey:  "event:1",
			},
		},
	}
}

func TestRenderDigest(t *testing.T) {
	digest := sampleDigest()
	blocks := renderDigest(digest)

	// header, summary, divider, then one section per finding
	gt.Array(t, blocks).Length(5)

	header, ok := blocks[0].(*goslack.HeaderBlock)
	gt.Bool(t, ok).True()
	gt.Bool(t, strings.Contains(header.Text.Text, "Daily Digest")).True()
	gt.Bool(t, strings.Contains(header.Text.Text, "Mar 2 2026")).True()

	section, ok := blocks[3].(*goslack.SectionBlock)
	gt.Bool(t, ok).True()
	gt.Bool(t, strings.Contains(section.Text.Text, "🚨")).True()
	gt.Bool(t, strings.Contains(section.Text.Text, "Quarterly numbers")).True()
}

func TestRenderDigest_SummaryLine(t *testing.T) {
	digest := sampleDigest()
	gt.Value(t, summaryLine(digest)).Equal("📧 1 emails · 📅 1 meetings")

	empty := &model.Digest{GeneratedAt: digest.GeneratedAt}
	gt.Value(t, summaryLine(empty)).Equal("No findings today")
}

func TestRenderDigest_Overflow(t *testing.T) {
	digest := sampleDigest()
	generatedAt := digest.GeneratedAt
	for i := 0; i < 50; i++ {
		digest.Findings = append(digest.Findings, &model.Finding{
			Agent:     types.AgentEmail,
			Kind:      types.FindingSummary,
			Title:     "bulk",
			Priority:  types.PriorityLow,
			Timestamp: generatedAt,
		})
	}

	blocks := renderDigest(digest)

	// 3 fixed blocks + capped findings + overflow note
	gt.Array(t, blocks).Length(3 + maxRenderedFindings + 1)
}

func TestRenderDigest_FailureFooter(t *testing.T) {
	digest := sampleDigest()
	digest.Failures = []*model.Failure{
		{Agent: types.AgentMeetingNotes, Kind: types.ErrorKindTimeout, Message: "timed out"},
	}

	blocks := renderDigest(digest)
	last, ok := blocks[len(blocks)-1].(*goslack.ContextBlock)
	gt.Bool(t, ok).True()

	text, ok := last.ContextElements.Elements[0].(*goslack.TextBlockObject)
	gt.Bool(t, ok).True()
	gt.Bool(t, strings.Contains(text.Text, "meeting-notes")).True()
	gt.Bool(t, strings.Contains(text.Text, "TIMEOUT")).True()
}

func TestClassifySendError(t *testing.T) {
	t.Run("rate limit is retryable delivery", func(t *testing.T) {
		err := classifySendError(&goslack.RateLimitedError{RetryAfter: time.Second}, "#digest")
		gt.Value(t, types.ErrorKindOf(err)).Equal(types.ErrorKindDelivery)
		gt.Bool(t, types.ErrorKindOf(err).Retryable()).True()
	})

	t.Run("API rejection is terminal", func(t *testing.T) {
		err := classifySendError(errors.New("channel_not_found"), "#digest")
		gt.Value(t, types.ErrorKindOf(err)).Equal(types.ErrorKindRejected)
		gt.Bool(t, types.ErrorKindOf(err).Retryable()).False()
	})

	t.Run("transport error is retryable delivery", func(t *testing.T) {
		err := classifySendError(errors.New("connection reset"), "#digest")
		gt.Value(t, types.ErrorKindOf(err)).Equal(types.ErrorKindDelivery)
	})
}

func TestFallbackText(t *testing.T) {
	digest := sampleDigest()
	gt.Value(t, fallbackText(digest)).Equal("Daily digest: 2 findings, 0 agent failures")
}
