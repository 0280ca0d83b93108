package slack

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api     *slack.Client
	channel string
}

// New creates a new Slack service with the provided bot token. The channel
// is where digests and alerts are posted.
func New(token, channel string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &client{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

// Send posts the digest to the configured channel. Chat posting either
// succeeds whole or fails whole, so a failed attempt is safe to retry
// without duplicating findings.
func (c *client) Send(ctx context.Context, digest *model.Digest) error {
	blocks := renderDigest(digest)

	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText(digest), false),
	)
	if err != nil {
		return classifySendError(err, c.channel)
	}

	return nil
}

// Alert posts a short urgent notice. Classification matches Send, though
// callers treat alert failures as best effort.
func (c *client) Alert(ctx context.Context, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return classifySendError(err, c.channel)
	}

	return nil
}

// rejectedAPIErrors lists chat.postMessage error codes that no retry can
// fix: the request itself is structurally invalid for this workspace.
var rejectedAPIErrors = map[string]bool{
	"channel_not_found":  true,
	"not_in_channel":     true,
	"is_archived":        true,
	"invalid_blocks":     true,
	"msg_too_long":       true,
	"restricted_action":  true,
	"invalid_auth":       true,
	"account_inactive":   true,
	"token_revoked":      true,
	"no_permission":      true,
	"ekm_access_denied":  true,
	"channel_is_private": true,
}

// classifySendError tags the error so the dispatcher can decide whether to
// retry. Rate limits and transport errors are retryable; API rejections of
// the request shape are terminal.
func classifySendError(err error, channel string) error {
	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return goerr.Wrap(err, "Slack rate limited",
			goerr.V("channel", channel),
			goerr.V("retry_after", rateLimited.RetryAfter.String()),
			goerr.T(types.ErrTagDelivery))
	}

	if rejectedAPIErrors[err.Error()] {
		return goerr.Wrap(err, "Slack rejected message",
			goerr.V("channel", channel),
			goerr.T(types.ErrTagRejected))
	}

	return goerr.Wrap(err, "failed to post Slack message",
		goerr.V("channel", channel),
		goerr.T(types.ErrTagDelivery))
}
