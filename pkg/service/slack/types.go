package slack

import (
	"context"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
)

// Service is the Slack-facing side of the notification capability. It
// implements both interfaces.NotificationSink and interfaces.AlertSink.
type Service interface {
	// Send posts the digest as a Block Kit message to the configured channel
	Send(ctx context.Context, digest *model.Digest) error

	// Alert posts a short urgent notice outside the digest flow
	Alert(ctx context.Context, text string) error
}
