package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/agent"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/secmon-lab/daybreak/pkg/utils/async"
	"github.com/secmon-lab/daybreak/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// RunDailyCycle executes one daily run: invoke all configured agents with
// bounded concurrency, aggregate surviving findings into a digest, and
// deliver it through the sink. One agent's failure never aborts the others;
// only total agent failure or exhausted delivery retries end the run FAILED.
//
// The returned RunReport is the terminal record of the run, including
// degraded and failed outcomes. The error return is reserved for setup
// problems; callers inspect RunReport.Status for the run result.
func (uc *UseCases) RunDailyCycle(ctx context.Context, cfg model.RunConfig) (*model.RunReport, error) {
	if len(uc.agents) == 0 {
		return nil, ErrNoAgents
	}
	if uc.sink == nil {
		return nil, ErrNoSink
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid run config")
	}
	cfg = cfg.Normalized()

	now := uc.now()
	report := &model.RunReport{
		RunID:         types.NewRunID(),
		Status:        types.RunStatusPending,
		StartedAt:     now,
		AgentOutcomes: make(map[types.AgentID]*model.AgentOutcome, len(uc.agents)),
	}

	logger := logging.From(ctx).With("run_id", report.RunID)
	ctx = logging.With(ctx, logger)
	logger.Info("Starting daily run",
		"agents", len(uc.agents),
		"window", cfg.Window.String(),
		"agent_timeout", cfg.AgentTimeout.String())

	uc.transition(ctx, report, types.RunStatusRunning)
	results := uc.invokeAgents(ctx, cfg, now, report)
	uc.transition(ctx, report, types.RunStatusAggregating)

	succeeded := 0
	for _, res := range results {
		if res.OK() {
			succeeded++
		}
	}

	if succeeded == 0 {
		// Nothing survived; there is no digest worth delivering.
		logger.Error("All agents failed, aborting run")
		uc.transition(ctx, report, types.RunStatusFailed)
		uc.finish(ctx, report)
		return report, nil
	}

	digest := BuildDigest(report.RunID, now, results)
	report.Digest = digest
	logger.Info("Digest built",
		"findings", len(digest.Findings),
		"failures", len(digest.Failures))

	uc.transition(ctx, report, types.RunStatusDelivering)
	report.Delivered = uc.deliver(ctx, digest, cfg.DeliveryRetries, report)

	switch {
	case !report.Delivered:
		// An undelivered digest has no value; delivery failure has no
		// degraded fallback.
		uc.transition(ctx, report, types.RunStatusFailed)
	case succeeded < len(results):
		uc.transition(ctx, report, types.RunStatusDegraded)
	default:
		uc.transition(ctx, report, types.RunStatusCompleted)
	}

	uc.finish(ctx, report)
	return report, nil
}

// invokeAgents runs every agent as an independent task and waits for all of
// them to settle. Results land in a slot per agent, so no shared mutable
// state crosses task boundaries; the report is only filled in afterwards.
func (uc *UseCases) invokeAgents(ctx context.Context, cfg model.RunConfig, now time.Time, report *model.RunReport) []*model.AgentResult {
	results := make([]*model.AgentResult, len(uc.agents))
	durations := make([]time.Duration, len(uc.agents))

	var eg errgroup.Group
	eg.SetLimit(cfg.MaxConcurrency)

	for i, ag := range uc.agents {
		eg.Go(func() error {
			agentCtx, cancel := context.WithTimeout(ctx, cfg.AgentTimeout)
			defer cancel()

			started := time.Now()
			results[i] = ag.Run(agentCtx, &agent.RunContext{
				Now:         now,
				Window:      cfg.Window,
				MaxFindings: cfg.MaxFindings,
			})
			durations[i] = time.Since(started)
			return nil
		})
	}

	// Agents never return errors through the group; failures are values.
	_ = eg.Wait()

	logger := logging.From(ctx)
	for i, res := range results {
		outcome := &model.AgentOutcome{
			Success:      res.OK(),
			FindingCount: len(res.Findings),
			Failure:      res.Failure,
			Duration:     durations[i],
		}
		report.AgentOutcomes[res.Agent] = outcome

		if res.OK() {
			logger.Info("Agent finished",
				"agent", res.Agent,
				"findings", outcome.FindingCount,
				"duration", outcome.Duration.String())
		} else {
			logger.Warn("Agent failed",
				"agent", res.Agent,
				"kind", res.Failure.Kind,
				"retryable", res.Failure.Retryable,
				"message", res.Failure.Message)
		}
	}

	return results
}

func (uc *UseCases) transition(ctx context.Context, report *model.RunReport, next types.RunStatus) {
	if !report.Status.CanTransition(next) {
		logging.From(ctx).Error("invalid run state transition",
			"from", report.Status, "to", next)
	}
	report.Status = next
}

// finish seals the report, persists it, and fires an urgent notice for
// failed runs. Persistence problems are logged, never escalated: the run
// outcome is already decided.
func (uc *UseCases) finish(ctx context.Context, report *model.RunReport) {
	report.FinishedAt = uc.now()

	logger := logging.From(ctx)
	logger.Info("Daily run finished",
		"status", report.Status,
		"delivered", report.Delivered,
		"delivery_attempts", len(report.DeliveryAttempts))

	if uc.repo != nil {
		if err := uc.repo.RunReport().Put(ctx, report); err != nil {
			logger.Error("failed to persist run report", "error", err.Error())
		}
	}

	if report.Status == types.RunStatusFailed && uc.alert != nil {
		text := fmt.Sprintf("🚨 URGENT: daily run %s failed (%d of %d agents failed, delivered=%v)",
			report.RunID, len(report.FailedAgents()), len(report.AgentOutcomes), report.Delivered)
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.alert.Alert(ctx, text)
		})
	}
}
