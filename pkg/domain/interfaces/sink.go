package interfaces

import (
	"context"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
)

// NotificationSink delivers a digest to its destination.
//
// Send fails with either a retryable delivery error (types.ErrTagDelivery)
// or a terminal rejection (types.ErrTagRejected, e.g. invalid channel).
// A send that partially posts must not report a plain retryable failure
// unless the sink deduplicates on retry.
type NotificationSink interface {
	Send(ctx context.Context, digest *model.Digest) error
}

// AlertSink posts a short out-of-band notice, used for urgent run-failure
// alerts. Best effort; callers tolerate errors.
type AlertSink interface {
	Alert(ctx context.Context, text string) error
}
