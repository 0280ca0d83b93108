package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
)

// EventSource provides upcoming events from an external calendar.
//
// FetchUpcoming returns events starting within [now, now+window). Same
// failure modes and retry guarantee as MessageSource.
type EventSource interface {
	FetchUpcoming(ctx context.Context, window time.Duration) ([]*model.Event, error)
}
