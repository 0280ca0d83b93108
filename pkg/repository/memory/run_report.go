package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

type runReportRepository struct {
	mu      sync.RWMutex
	reports map[types.RunID]*model.RunReport
}

func newRunReportRepository() *runReportRepository {
	return &runReportRepository{
		reports: make(map[types.RunID]*model.RunReport),
	}
}

func (r *runReportRepository) Put(ctx context.Context, report *model.RunReport) error {
	if err := report.RunID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid run ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports[report.RunID] = copyReport(report)
	return nil
}

func (r *runReportRepository) Get(ctx context.Context, id types.RunID) (*model.RunReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, exists := r.reports[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "run report not found", goerr.V("runID", id))
	}

	return copyReport(report), nil
}

func (r *runReportRepository) List(ctx context.Context, limit int) ([]*model.RunReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(limit, func(*model.RunReport) bool { return true }), nil
}

func (r *runReportRepository) ListByStatus(ctx context.Context, status types.RunStatus, limit int) ([]*model.RunReport, error) {
	if !status.IsValid() {
		return nil, goerr.New("invalid run status", goerr.V("status", status))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(limit, func(report *model.RunReport) bool {
		return report.Status == status
	}), nil
}

// collect returns matching reports sorted by start time, newest first.
// Callers must hold at least the read lock.
func (r *runReportRepository) collect(limit int, match func(*model.RunReport) bool) []*model.RunReport {
	reports := make([]*model.RunReport, 0, len(r.reports))
	for _, report := range r.reports {
		if match(report) {
			reports = append(reports, copyReport(report))
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})

	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports
}

// copyReport deep-copies a report to prevent external modification
func copyReport(report *model.RunReport) *model.RunReport {
	copied := *report

	if report.AgentOutcomes != nil {
		copied.AgentOutcomes = make(map[types.AgentID]*model.AgentOutcome, len(report.AgentOutcomes))
		for id, outcome := range report.AgentOutcomes {
			o := *outcome
			if outcome.Failure != nil {
				f := *outcome.Failure
				o.Failure = &f
			}
			copied.AgentOutcomes[id] = &o
		}
	}

	if report.DeliveryAttempts != nil {
		copied.DeliveryAttempts = make([]model.DeliveryAttempt, len(report.DeliveryAttempts))
		copy(copied.DeliveryAttempts, report.DeliveryAttempts)
	}

	if report.Digest != nil {
		digest := *report.Digest
		digest.Findings = make([]*model.Finding, len(report.Digest.Findings))
		for i, finding := range report.Digest.Findings {
			f := *finding
			digest.Findings[i] = &f
		}
		digest.Failures = make([]*model.Failure, len(report.Digest.Failures))
		for i, failure := range report.Digest.Failures {
			f := *failure
			digest.Failures[i] = &f
		}
		copied.Digest = &digest
	}

	return &copied
}
