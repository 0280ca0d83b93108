package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// fetchLimit bounds how many unread messages are pulled before ranking.
// The finding cap is applied after scoring so the highest-priority messages
// survive regardless of mailbox order.
const emailFetchLimit = 50

// EmailConfig tunes the email ranking heuristic
type EmailConfig struct {
	// SenderWeights maps a sender substring (case-insensitive) to a score
	// bonus, e.g. {"@mycompany.com": 1.0, "ceo@": 2.0}.
	SenderWeights map[string]float64

	// Keywords each add 0.5 to the score when found in subject or snippet.
	Keywords []string

	// MaxFindings caps findings per run. Defaults to 10.
	MaxFindings int
}

// Normalized returns a copy with defaults applied
func (c EmailConfig) Normalized() EmailConfig {
	if c.MaxFindings <= 0 {
		c.MaxFindings = model.DefaultEmailMaxFindings
	}
	return c
}

// Scorer computes a priority score for one message. The default starts at
// 1.0 and adds sender weight, 0.5 per keyword hit, and a recency bonus
// (+1.0 within an hour, +0.5 within six). Scores map to priorities at
// >=3.0 urgent, >=2.0 high, >=1.5 normal.
type Scorer func(msg *model.Message, now time.Time) float64

// Email summarizes unread messages into priority-ranked findings
type Email struct {
	source interfaces.MessageSource
	cfg    EmailConfig
	score  Scorer
}

// EmailOption is a functional option for Email
type EmailOption func(*Email)

// WithScorer replaces the default scoring heuristic
func WithScorer(s Scorer) EmailOption {
	return func(a *Email) {
		a.score = s
	}
}

// NewEmail creates the email agent
func NewEmail(source interfaces.MessageSource, cfg EmailConfig, opts ...EmailOption) *Email {
	a := &Email{
		source: source,
		cfg:    cfg.Normalized(),
	}
	a.score = defaultScorer(a.cfg)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Email) ID() types.AgentID {
	return types.AgentEmail
}

func (a *Email) Run(ctx context.Context, rc *RunContext) *model.AgentResult {
	return runGuarded(ctx, a.ID(), func(ctx context.Context) ([]*model.Finding, error) {
		return a.collect(ctx, rc)
	})
}

func (a *Email) collect(ctx context.Context, rc *RunContext) ([]*model.Finding, error) {
	messages, err := a.source.FetchUnread(ctx, emailFetchLimit)
	if err != nil {
		return nil, err
	}

	type scored struct {
		msg      *model.Message
		priority types.Priority
	}

	ranked := make([]scored, 0, len(messages))
	for _, msg := range messages {
		ranked = append(ranked, scored{
			msg:      msg,
			priority: priorityFromScore(a.score(msg, rc.Now)),
		})
	}

	// Highest priority first; ties broken by most recent message. The cap
	// drops the tail, so low-priority mail never crowds out urgent mail.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].priority.Score() != ranked[j].priority.Score() {
			return ranked[i].priority.Score() > ranked[j].priority.Score()
		}
		return ranked[i].msg.ReceivedAt.After(ranked[j].msg.ReceivedAt)
	})

	limit := a.cfg.MaxFindings
	if rc.MaxFindings > 0 && rc.MaxFindings < limit {
		limit = rc.MaxFindings
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	findings := make([]*model.Finding, 0, len(ranked))
	for _, s := range ranked {
		findings = append(findings, &model.Finding{
			Agent:     a.ID(),
			Kind:      types.FindingSummary,
			Title:     subjectOrPlaceholder(s.msg.Subject),
			Body:      fmt.Sprintf("From: %s\n%s", s.msg.Sender, s.msg.Snippet),
			Priority:  s.priority,
			Timestamp: s.msg.ReceivedAt,
			DedupKey:  types.DedupKey("email:" + s.msg.ID),
		})
	}

	return findings, nil
}

func subjectOrPlaceholder(subject string) string {
	if subject == "" {
		return "(no subject)"
	}
	return subject
}

func defaultScorer(cfg EmailConfig) Scorer {
	return func(msg *model.Message, now time.Time) float64 {
		score := 1.0

		sender := strings.ToLower(msg.Sender)
		for pattern, weight := range cfg.SenderWeights {
			if strings.Contains(sender, strings.ToLower(pattern)) {
				score += weight
			}
		}

		text := strings.ToLower(msg.Subject + " " + msg.Snippet)
		for _, kw := range cfg.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				score += 0.5
			}
		}

		switch age := now.Sub(msg.ReceivedAt); {
		case age <= time.Hour:
			score += 1.0
		case age <= 6*time.Hour:
			score += 0.5
		}

		return score
	}
}

func priorityFromScore(score float64) types.Priority {
	switch {
	case score >= 3.0:
		return types.PriorityUrgent
	case score >= 2.0:
		return types.PriorityHigh
	case score >= 1.5:
		return types.PriorityNormal
	default:
		return types.PriorityLow
	}
}
