package agent

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/secmon-lab/daybreak/pkg/utils/logging"
)

// Agent is one named unit of the daily run. Run never returns an unhandled
// fault: every capability error (and panic) is converted into a Failure on
// the returned result, so one agent's crash cannot take down the run.
type Agent interface {
	ID() types.AgentID
	Run(ctx context.Context, rc *RunContext) *model.AgentResult
}

// RunContext carries run-scoped parameters into an agent invocation. Agents
// share no mutable state; each gets its own copy of the values it needs.
type RunContext struct {
	// Now is the coordinator's notion of the run start time. Agents use it
	// instead of time.Now so a run is internally consistent.
	Now time.Time

	// Window is the lookahead (calendar) / lookbehind (transcripts) span.
	Window time.Duration

	// MaxFindings caps this invocation's output. Zero means no cap beyond
	// an agent's own default.
	MaxFindings int
}

// runGuarded executes collect and converts any error or panic into a
// Failure result. This is the isolation boundary the coordinator relies on.
func runGuarded(ctx context.Context, id types.AgentID, collect func(ctx context.Context) ([]*model.Finding, error)) (result *model.AgentResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("panic in agent", "agent", id, "panic", r)
			result = model.NewFailure(id, goerr.New("panic in agent",
				goerr.V("agent", id), goerr.V("panic", r),
				goerr.T(types.ErrTagProcessing)))
		}
	}()

	findings, err := collect(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = goerr.Wrap(err, "agent timed out",
				goerr.V("agent", id), goerr.T(types.ErrTagTimeout))
		}
		return model.NewFailure(id, err)
	}

	return model.NewFindings(id, findings)
}

// capFindings truncates findings to limit when limit is positive
func capFindings(findings []*model.Finding, limit int) []*model.Finding {
	if limit > 0 && len(findings) > limit {
		return findings[:limit]
	}
	return findings
}
