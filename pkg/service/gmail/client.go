package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	gmailUser    = "me"
	defaultQuery = "is:unread"
)

// Source implements interfaces.MessageSource on top of the Gmail API.
// Fetching is read-only, so a failed call leaves no visible side effects
// and is safe to retry.
type Source struct {
	svc   *gmail.Service
	query string
}

var _ interfaces.MessageSource = &Source{}

// New creates a Gmail message source. An empty query defaults to unread
// mail. Credentials come from clientOpts (typically application default
// credentials with the readonly scope).
func New(ctx context.Context, query string, clientOpts ...option.ClientOption) (*Source, error) {
	svc, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gmail service")
	}

	if query == "" {
		query = defaultQuery
	}

	return &Source{
		svc:   svc,
		query: query,
	}, nil
}

// FetchUnread lists matching messages and resolves headers and body text
func (s *Source) FetchUnread(ctx context.Context, limit int) ([]*model.Message, error) {
	listed, err := s.svc.Users.Messages.List(gmailUser).
		Q(s.query).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err, "failed to list Gmail messages")
	}

	messages := make([]*model.Message, 0, len(listed.Messages))
	for _, ref := range listed.Messages {
		full, err := s.svc.Users.Messages.Get(gmailUser, ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, classifyAPIError(err, "failed to get Gmail message")
		}

		messages = append(messages, &model.Message{
			ID:         full.Id,
			Sender:     header(full.Payload, "From"),
			Subject:    header(full.Payload, "Subject"),
			Snippet:    full.Snippet,
			Body:       extractBody(full.Payload),
			ReceivedAt: time.UnixMilli(full.InternalDate).UTC(),
		})
	}

	return messages, nil
}

func header(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// extractBody walks the MIME tree and returns the first text/plain part
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if payload.MimeType == "text/plain" && payload.Body != nil {
		return decodeBody(payload.Body.Data)
	}
	for _, part := range payload.Parts {
		if body := extractBody(part); body != "" {
			return body
		}
	}
	return ""
}

// decodeBody decodes the web-safe base64 message body. Gmail emits unpadded
// data, so padding is stripped before decoding.
func decodeBody(data string) string {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(raw)
}

func classifyAPIError(err error, msg string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403) {
		return goerr.Wrap(err, msg, goerr.V("code", apiErr.Code), goerr.T(types.ErrTagAuth))
	}
	return goerr.Wrap(err, msg, goerr.T(types.ErrTagConnectivity))
}
