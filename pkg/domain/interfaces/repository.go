package interfaces

import (
	"context"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// Repository defines the interface for run report persistence
type Repository interface {
	RunReport() RunReportRepository
	Close() error
}

// RunReportRepository stores terminal run reports for audit
type RunReportRepository interface {
	Put(ctx context.Context, report *model.RunReport) error
	Get(ctx context.Context, id types.RunID) (*model.RunReport, error)
	List(ctx context.Context, limit int) ([]*model.RunReport, error)
	ListByStatus(ctx context.Context, status types.RunStatus, limit int) ([]*model.RunReport, error)
}
