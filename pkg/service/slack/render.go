package slack

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/slack-go/slack"
)

// maxRenderedFindings keeps the message under Slack's 50-block limit;
// header, summary, dividers and the failure footer take the rest.
const maxRenderedFindings = 40

func fallbackText(digest *model.Digest) string {
	return fmt.Sprintf("Daily digest: %d findings, %d agent failures",
		len(digest.Findings), len(digest.Failures))
}

// renderDigest converts a digest into Block Kit blocks
func renderDigest(digest *model.Digest) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("📋 Daily Digest — %s", digest.GeneratedAt.Format("Mon, Jan 2 2006")),
			true, false)),
		slack.NewContextBlock("digest-summary",
			slack.NewTextBlockObject(slack.MarkdownType, summaryLine(digest), false, false)),
		slack.NewDividerBlock(),
	}

	findings := digest.Findings
	overflow := 0
	if len(findings) > maxRenderedFindings {
		overflow = len(findings) - maxRenderedFindings
		findings = findings[:maxRenderedFindings]
	}

	for _, f := range findings {
		text := fmt.Sprintf("%s *%s*", priorityEmoji(f.Priority), f.Title)
		if f.Body != "" {
			text += "\n" + f.Body
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil))
	}

	if overflow > 0 {
		blocks = append(blocks, slack.NewContextBlock("digest-overflow",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("…and %d more findings", overflow), false, false)))
	}

	if len(digest.Failures) > 0 {
		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewContextBlock("digest-failures",
				slack.NewTextBlockObject(slack.MarkdownType, failureLine(digest.Failures), false, false)))
	}

	return blocks
}

func summaryLine(digest *model.Digest) string {
	counts := digest.CountByAgent()

	var parts []string
	if n := counts[types.AgentEmail]; n > 0 {
		parts = append(parts, fmt.Sprintf("📧 %d emails", n))
	}
	if n := counts[types.AgentCalendar]; n > 0 {
		parts = append(parts, fmt.Sprintf("📅 %d meetings", n))
	}
	if n := counts[types.AgentMeetingNotes]; n > 0 {
		parts = append(parts, fmt.Sprintf("📝 %d notes", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "No findings today")
	}

	return strings.Join(parts, " · ")
}

func failureLine(failures []*model.Failure) string {
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, fmt.Sprintf("%s (%s)", f.Agent, f.Kind))
	}
	return "⚠️ Partial digest, failed agents: " + strings.Join(names, ", ")
}

func priorityEmoji(p types.Priority) string {
	switch p {
	case types.PriorityUrgent:
		return "🚨"
	case types.PriorityHigh:
		return "⚠️"
	case types.PriorityNormal:
		return "📌"
	default:
		return "📎"
	}
}
