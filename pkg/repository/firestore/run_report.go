package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const runReportCollection = "run_reports"

// runReportDoc is the Firestore document representation of model.RunReport.
// Agent outcomes are stored as a sorted array because Firestore cannot index
// map fields with typed keys.
type runReportDoc struct {
	RunID            types.RunID             `firestore:"run_id"`
	Status           types.RunStatus         `firestore:"status"`
	StartedAt        time.Time               `firestore:"started_at"`
	FinishedAt       time.Time               `firestore:"finished_at"`
	Delivered        bool                    `firestore:"delivered"`
	AgentOutcomes    []agentOutcomeDoc       `firestore:"agent_outcomes"`
	DeliveryAttempts []model.DeliveryAttempt `firestore:"delivery_attempts"`
	Digest           *model.Digest           `firestore:"digest,omitempty"`
}

type agentOutcomeDoc struct {
	Agent        types.AgentID  `firestore:"agent"`
	Success      bool           `firestore:"success"`
	FindingCount int            `firestore:"finding_count"`
	Failure      *model.Failure `firestore:"failure,omitempty"`
	Duration     time.Duration  `firestore:"duration"`
}

func toRunReportDoc(report *model.RunReport) *runReportDoc {
	doc := &runReportDoc{
		RunID:            report.RunID,
		Status:           report.Status,
		StartedAt:        report.StartedAt,
		FinishedAt:       report.FinishedAt,
		Delivered:        report.Delivered,
		DeliveryAttempts: report.DeliveryAttempts,
		Digest:           report.Digest,
	}

	for id, outcome := range report.AgentOutcomes {
		doc.AgentOutcomes = append(doc.AgentOutcomes, agentOutcomeDoc{
			Agent:        id,
			Success:      outcome.Success,
			FindingCount: outcome.FindingCount,
			Failure:      outcome.Failure,
			Duration:     outcome.Duration,
		})
	}
	sort.Slice(doc.AgentOutcomes, func(i, j int) bool {
		return doc.AgentOutcomes[i].Agent < doc.AgentOutcomes[j].Agent
	})

	return doc
}

func fromRunReportDoc(doc *runReportDoc) *model.RunReport {
	report := &model.RunReport{
		RunID:            doc.RunID,
		Status:           doc.Status,
		StartedAt:        doc.StartedAt,
		FinishedAt:       doc.FinishedAt,
		Delivered:        doc.Delivered,
		DeliveryAttempts: doc.DeliveryAttempts,
		Digest:           doc.Digest,
	}

	if len(doc.AgentOutcomes) > 0 {
		report.AgentOutcomes = make(map[types.AgentID]*model.AgentOutcome, len(doc.AgentOutcomes))
		for _, outcome := range doc.AgentOutcomes {
			report.AgentOutcomes[outcome.Agent] = &model.AgentOutcome{
				Success:      outcome.Success,
				FindingCount: outcome.FindingCount,
				Failure:      outcome.Failure,
				Duration:     outcome.Duration,
			}
		}
	}

	return report
}

type runReportRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRunReportRepository(client *firestore.Client) *runReportRepository {
	return &runReportRepository{client: client}
}

func (r *runReportRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + runReportCollection)
}

func (r *runReportRepository) Put(ctx context.Context, report *model.RunReport) error {
	if err := report.RunID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid run ID")
	}

	docRef := r.collection().Doc(report.RunID.String())
	if _, err := docRef.Set(ctx, toRunReportDoc(report)); err != nil {
		return goerr.Wrap(err, "failed to put run report", goerr.V("runID", report.RunID))
	}

	return nil
}

func (r *runReportRepository) Get(ctx context.Context, id types.RunID) (*model.RunReport, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "run report not found", goerr.V("runID", id))
		}
		return nil, goerr.Wrap(err, "failed to get run report", goerr.V("runID", id))
	}

	var d runReportDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal run report", goerr.V("runID", id))
	}

	return fromRunReportDoc(&d), nil
}

func (r *runReportRepository) List(ctx context.Context, limit int) ([]*model.RunReport, error) {
	query := r.collection().OrderBy("started_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.listQuery(ctx, query)
}

func (r *runReportRepository) ListByStatus(ctx context.Context, runStatus types.RunStatus, limit int) ([]*model.RunReport, error) {
	if !runStatus.IsValid() {
		return nil, goerr.New("invalid run status", goerr.V("status", runStatus))
	}

	query := r.collection().
		Where("status", "==", runStatus.String()).
		OrderBy("started_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.listQuery(ctx, query)
}

func (r *runReportRepository) listQuery(ctx context.Context, query firestore.Query) ([]*model.RunReport, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	reports := make([]*model.RunReport, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate run reports")
		}

		var d runReportDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal run report")
		}

		reports = append(reports, fromRunReportDoc(&d))
	}

	return reports, nil
}
