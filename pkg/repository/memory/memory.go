package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested run report does not exist
var ErrNotFound = goerr.New("not found")

// Memory is an in-process repository for local runs and tests
type Memory struct {
	runReport *runReportRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		runReport: newRunReportRepository(),
	}
}

func (m *Memory) RunReport() interfaces.RunReportRepository {
	return m.runReport
}

func (m *Memory) Close() error {
	return nil
}
