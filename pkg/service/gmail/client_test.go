package gmail

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

func TestExtractBody(t *testing.T) {
	encode := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	t.Run("plain text at the top level", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: encode("hello")},
		}
		gt.Value(t, extractBody(payload)).Equal("hello")
	})

	t.Run("plain text nested in multipart", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmail.MessagePartBody{Data: encode("<p>hello</p>")},
				},
				{
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{Data: encode("hello")},
				},
			},
		}
		gt.Value(t, extractBody(payload)).Equal("hello")
	})

	t.Run("no plain text part", func(t *testing.T) {
		payload := &gmail.MessagePart{
			MimeType: "text/html",
			Body:     &gmail.MessagePartBody{Data: encode("<p>hello</p>")},
		}
		gt.Value(t, extractBody(payload)).Equal("")
	})

	t.Run("nil payload", func(t *testing.T) {
		gt.Value(t, extractBody(nil)).Equal("")
	})
}

func TestDecodeBody(t *testing.T) {
	t.Run("padded input", func(t *testing.T) {
		gt.Value(t, decodeBody("aGVsbG8=")).Equal("hello")
	})

	t.Run("unpadded input", func(t *testing.T) {
		gt.Value(t, decodeBody("aGVsbG8")).Equal("hello")
	})

	t.Run("garbage input", func(t *testing.T) {
		gt.Value(t, decodeBody("!!not base64!!")).Equal("")
	})
}

func TestHeader(t *testing.T) {
	payload := &gmail.MessagePart{
		Headers: []*gmail.MessagePartHeader{
			{Name: "From", Value: "alice@example.com"},
			{Name: "Subject", Value: "status update"},
		},
	}

	gt.Value(t, header(payload, "From")).Equal("alice@example.com")
	gt.Value(t, header(payload, "Subject")).Equal("status update")
	gt.Value(t, header(payload, "Cc")).Equal("")
	gt.Value(t, header(nil, "From")).Equal("")
}

func TestClassifyAPIError(t *testing.T) {
	t.Run("403 is an auth error", func(t *testing.T) {
		err := classifyAPIError(&googleapi.Error{Code: 403}, "failed")
		gt.Value(t, types.ErrorKindOf(err)).Equal(types.ErrorKindAuth)
	})

	t.Run("500 is a connectivity error", func(t *testing.T) {
		err := classifyAPIError(&googleapi.Error{Code: 500}, "failed")
		gt.Value(t, types.ErrorKindOf(err)).Equal(types.ErrorKindConnectivity)
	})

	t.Run("plain error is a connectivity error", func(t *testing.T) {
		err := classifyAPIError(errors.New("dial tcp: timeout"), "failed")
		gt.Value(t, types.ErrorKindOf(err)).Equal(types.ErrorKindConnectivity)
	})
}
