package interfaces

import (
	"context"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
)

// MessageSource provides unread messages from an external mailbox.
//
// FetchUnread must be idempotent-safe to retry: a failed call leaves no
// partial side effects visible to the caller. Errors carry connectivity or
// auth tags (types.ErrTagConnectivity, types.ErrTagAuth).
type MessageSource interface {
	FetchUnread(ctx context.Context, limit int) ([]*model.Message, error)
}
