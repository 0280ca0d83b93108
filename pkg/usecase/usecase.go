package usecase

import (
	"time"

	"github.com/secmon-lab/daybreak/pkg/agent"
	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
)

// UseCases wires the run coordinator to its agents, sink and audit store
type UseCases struct {
	agents      []agent.Agent
	sink        interfaces.NotificationSink
	repo        interfaces.Repository
	alert       interfaces.AlertSink
	backoffBase time.Duration
	now         func() time.Time
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithRepository enables run report persistence
func WithRepository(repo interfaces.Repository) Option {
	return func(uc *UseCases) {
		uc.repo = repo
	}
}

// WithAlertSink enables urgent notices when a run fails
func WithAlertSink(alert interfaces.AlertSink) Option {
	return func(uc *UseCases) {
		uc.alert = alert
	}
}

// WithBackoffBase overrides the initial delivery retry backoff
func WithBackoffBase(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.backoffBase = d
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// New creates the use case layer. The agent list defines the configured set
// for every run; the notification agent participates only through sink.
func New(sink interfaces.NotificationSink, agents []agent.Agent, opts ...Option) *UseCases {
	uc := &UseCases{
		agents:      agents,
		sink:        sink,
		backoffBase: 500 * time.Millisecond,
		now:         func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
