package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// CalendarConfig tunes the event importance heuristic
type CalendarConfig struct {
	// AttendeeThreshold marks an event important when it has at least this
	// many attendees. Defaults to 3.
	AttendeeThreshold int

	// Keywords mark an event important on a case-insensitive title match.
	Keywords []string
}

// Normalized returns a copy with defaults applied
func (c CalendarConfig) Normalized() CalendarConfig {
	if c.AttendeeThreshold <= 0 {
		c.AttendeeThreshold = 3
	}
	if len(c.Keywords) == 0 {
		c.Keywords = []string{"review", "planning", "interview", "incident", "all hands"}
	}
	return c
}

// Calendar emits a reminder finding per important upcoming event
type Calendar struct {
	source interfaces.EventSource
	cfg    CalendarConfig
}

// NewCalendar creates the calendar agent
func NewCalendar(source interfaces.EventSource, cfg CalendarConfig) *Calendar {
	return &Calendar{
		source: source,
		cfg:    cfg.Normalized(),
	}
}

func (a *Calendar) ID() types.AgentID {
	return types.AgentCalendar
}

func (a *Calendar) Run(ctx context.Context, rc *RunContext) *model.AgentResult {
	return runGuarded(ctx, a.ID(), func(ctx context.Context) ([]*model.Finding, error) {
		return a.collect(ctx, rc)
	})
}

func (a *Calendar) collect(ctx context.Context, rc *RunContext) ([]*model.Finding, error) {
	events, err := a.source.FetchUpcoming(ctx, rc.Window)
	if err != nil {
		return nil, err
	}

	var findings []*model.Finding
	for _, ev := range events {
		if !a.important(ev) {
			continue
		}

		findings = append(findings, &model.Finding{
			Agent:     a.ID(),
			Kind:      types.FindingReminder,
			Title:     ev.Title,
			Body:      eventBody(ev),
			Priority:  priorityFromLead(ev.StartsAt.Sub(rc.Now)),
			Timestamp: ev.StartsAt,
			DedupKey:  types.DedupKey("event:" + ev.ID),
		})
	}

	return capFindings(findings, rc.MaxFindings), nil
}

func (a *Calendar) important(ev *model.Event) bool {
	if ev.Important {
		return true
	}
	if len(ev.Attendees) >= a.cfg.AttendeeThreshold {
		return true
	}

	title := strings.ToLower(ev.Title)
	for _, kw := range a.cfg.Keywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return true
		}
	}

	return false
}

// priorityFromLead maps time-to-event to priority. Monotonic: shrinking the
// lead time never lowers the priority.
func priorityFromLead(lead time.Duration) types.Priority {
	switch {
	case lead <= time.Hour:
		return types.PriorityUrgent
	case lead <= 4*time.Hour:
		return types.PriorityHigh
	case lead <= 12*time.Hour:
		return types.PriorityNormal
	default:
		return types.PriorityLow
	}
}

func eventBody(ev *model.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Starts at %s", ev.StartsAt.Format(time.RFC1123))
	if n := len(ev.Attendees); n > 0 {
		fmt.Fprintf(&sb, "\nAttendees: %d", n)
	}
	if ev.MeetLink != "" {
		fmt.Fprintf(&sb, "\nJoin: %s", ev.MeetLink)
	}
	return sb.String()
}
