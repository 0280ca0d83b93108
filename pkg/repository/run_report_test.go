package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/secmon-lab/daybreak/pkg/repository/firestore"
	"github.com/secmon-lab/daybreak/pkg/repository/memory"
)

func sampleReport(startedAt time.Time, status types.RunStatus) *model.RunReport {
	runID := types.NewRunID()
	return &model.RunReport{
		RunID:      runID,
		Status:     status,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Minute),
		Delivered:  status == types.RunStatusCompleted || status == types.RunStatusDegraded,
		AgentOutcomes: map[types.AgentID]*model.AgentOutcome{
			types.AgentEmail: {Success: true, FindingCount: 3, Duration: 2 * time.Second},
			types.AgentMeetingNotes: {
				Success: false,
				Failure: &model.Failure{
					Agent:     types.AgentMeetingNotes,
					Kind:      types.ErrorKindConnectivity,
					Message:   "dial failed",
					Retryable: true,
				},
			},
		},
		DeliveryAttempts: []model.DeliveryAttempt{
			{Attempt: 1, At: startedAt.Add(30 * time.Second), Succeeded: true},
		},
		Digest: &model.Digest{
			RunID:       runID,
			GeneratedAt: startedAt.Add(20 * time.Second),
			Findings: []*model.Finding{
				{
					Agent:     types.AgentEmail,
					Kind:      types.FindingSummary,
					Title:     "mail",
					Priority:  types.PriorityHigh,
					Timestamp: startedAt,
					DedupKey:  "email:1",
				},
			},
		},
	}
}

func runRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round-trips a report", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		report := sampleReport(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), types.RunStatusDegraded)
		if err := repo.RunReport().Put(ctx, report); err != nil {
			t.Fatalf("failed to put report: %v", err)
		}

		got, err := repo.RunReport().Get(ctx, report.RunID)
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}

		if got.RunID != report.RunID {
			t.Errorf("expected run ID %s, got %s", report.RunID, got.RunID)
		}
		if got.Status != types.RunStatusDegraded {
			t.Errorf("expected status DEGRADED, got %s", got.Status)
		}
		if !got.Delivered {
			t.Error("expected delivered=true")
		}
		if len(got.AgentOutcomes) != 2 {
			t.Fatalf("expected 2 agent outcomes, got %d", len(got.AgentOutcomes))
		}
		if got.AgentOutcomes[types.AgentEmail].FindingCount != 3 {
			t.Errorf("expected 3 findings for email agent, got %d", got.AgentOutcomes[types.AgentEmail].FindingCount)
		}
		failure := got.AgentOutcomes[types.AgentMeetingNotes].Failure
		if failure == nil || failure.Kind != types.ErrorKindConnectivity {
			t.Errorf("expected connectivity failure for meeting-notes agent, got %+v", failure)
		}
		if len(got.DeliveryAttempts) != 1 || !got.DeliveryAttempts[0].Succeeded {
			t.Errorf("expected one successful delivery attempt, got %+v", got.DeliveryAttempts)
		}
		if got.Digest == nil || len(got.Digest.Findings) != 1 {
			t.Errorf("expected digest with one finding, got %+v", got.Digest)
		}
	})

	t.Run("Get unknown run returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.RunReport().Get(ctx, types.NewRunID())
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Put rejects invalid run ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		report := sampleReport(time.Now().UTC(), types.RunStatusCompleted)
		report.RunID = "not-a-uuid"
		if err := repo.RunReport().Put(ctx, report); err == nil {
			t.Error("expected error for invalid run ID")
		}
	})

	t.Run("Put overwrites an existing report", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		report := sampleReport(time.Now().UTC(), types.RunStatusFailed)
		if err := repo.RunReport().Put(ctx, report); err != nil {
			t.Fatalf("failed to put report: %v", err)
		}

		report.Status = types.RunStatusCompleted
		if err := repo.RunReport().Put(ctx, report); err != nil {
			t.Fatalf("failed to overwrite report: %v", err)
		}

		got, err := repo.RunReport().Get(ctx, report.RunID)
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}
		if got.Status != types.RunStatusCompleted {
			t.Errorf("expected status COMPLETED after overwrite, got %s", got.Status)
		}
	})

	t.Run("List returns newest first with limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
		var ids []types.RunID
		for i := 0; i < 3; i++ {
			report := sampleReport(base.AddDate(0, 0, i), types.RunStatusCompleted)
			if err := repo.RunReport().Put(ctx, report); err != nil {
				t.Fatalf("failed to put report %d: %v", i, err)
			}
			ids = append(ids, report.RunID)
		}

		listed, err := repo.RunReport().List(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list reports: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(listed))
		}
		if listed[0].RunID != ids[2] {
			t.Errorf("expected newest report first, got %s", listed[0].RunID)
		}
		if listed[1].RunID != ids[1] {
			t.Errorf("expected second newest report, got %s", listed[1].RunID)
		}
	})

	t.Run("ListByStatus filters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
		completed := sampleReport(base, types.RunStatusCompleted)
		failed := sampleReport(base.AddDate(0, 0, 1), types.RunStatusFailed)
		for _, report := range []*model.RunReport{completed, failed} {
			if err := repo.RunReport().Put(ctx, report); err != nil {
				t.Fatalf("failed to put report: %v", err)
			}
		}

		listed, err := repo.RunReport().ListByStatus(ctx, types.RunStatusFailed, 0)
		if err != nil {
			t.Fatalf("failed to list by status: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("expected 1 failed report, got %d", len(listed))
		}
		if listed[0].RunID != failed.RunID {
			t.Errorf("expected failed report, got %s", listed[0].RunID)
		}

		if _, err := repo.RunReport().ListByStatus(ctx, types.RunStatus("bogus"), 0); err == nil {
			t.Error("expected error for invalid status")
		}
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		report := sampleReport(time.Now().UTC(), types.RunStatusCompleted)
		if err := repo.RunReport().Put(ctx, report); err != nil {
			t.Fatalf("failed to put report: %v", err)
		}

		first, err := repo.RunReport().Get(ctx, report.RunID)
		if err != nil {
			t.Fatalf("failed to get report: %v", err)
		}
		first.Status = types.RunStatusFailed
		first.AgentOutcomes[types.AgentEmail].FindingCount = 99

		second, err := repo.RunReport().Get(ctx, report.RunID)
		if err != nil {
			t.Fatalf("failed to get report again: %v", err)
		}
		if second.Status != types.RunStatusCompleted {
			t.Errorf("stored report mutated: status=%s", second.Status)
		}
		if second.AgentOutcomes[types.AgentEmail].FindingCount != 3 {
			t.Errorf("stored report mutated: finding count=%d", second.AgentOutcomes[types.AgentEmail].FindingCount)
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryRunReportRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRunReportRepository(t *testing.T) {
	runRepositoryTest(t, newFirestoreRepository)
}
