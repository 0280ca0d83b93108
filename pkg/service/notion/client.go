package notion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

const queryPageSize = 100

// Source implements interfaces.TranscriptSource over a Notion database.
// Each page in the database is one meeting transcript: the page title is
// the meeting title and the page body is the transcript text.
type Source struct {
	api  *notionapi.Client
	dbID notionapi.DatabaseID
}

var _ interfaces.TranscriptSource = &Source{}

// New creates a Notion transcript source for the given database
func New(token, databaseID string) (*Source, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}
	if databaseID == "" {
		return nil, goerr.New("Notion database ID is required")
	}

	return &Source{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
		dbID: notionapi.DatabaseID(databaseID),
	}, nil
}

// FetchRecent returns transcripts edited on or after since, oldest first
func (s *Source) FetchRecent(ctx context.Context, since time.Time) ([]*model.Transcript, error) {
	var transcripts []*model.Transcript
	var cursor notionapi.Cursor

	onOrAfter := notionapi.Date(since)
	for {
		resp, err := s.api.Database.Query(ctx, s.dbID, &notionapi.DatabaseQueryRequest{
			Filter: &notionapi.TimestampFilter{
				Timestamp: "last_edited_time",
				LastEditedTime: &notionapi.DateFilterCondition{
					OnOrAfter: &onOrAfter,
				},
			},
			Sorts: []notionapi.SortObject{{
				Timestamp: "last_edited_time",
				Direction: "ascending",
			}},
			StartCursor: cursor,
			PageSize:    queryPageSize,
		})
		if err != nil {
			return nil, classifyAPIError(err, "failed to query Notion database", string(s.dbID))
		}

		for _, page := range resp.Results {
			text, err := s.pageText(ctx, page.ID.String())
			if err != nil {
				return nil, err
			}

			transcripts = append(transcripts, &model.Transcript{
				ID:         page.ID.String(),
				Title:      pageTitle(page.Properties),
				Text:       text,
				RecordedAt: time.Time(page.LastEditedTime).UTC(),
			})
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return transcripts, nil
}

// pageText flattens the page's block tree into plain text, one block per line
func (s *Source) pageText(ctx context.Context, pageID string) (string, error) {
	var sb strings.Builder
	if err := s.appendBlockText(ctx, pageID, &sb); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (s *Source) appendBlockText(ctx context.Context, blockID string, sb *strings.Builder) error {
	var cursor notionapi.Cursor

	for {
		resp, err := s.api.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    queryPageSize,
		})
		if err != nil {
			return classifyAPIError(err, "failed to get Notion blocks", blockID)
		}

		for _, block := range resp.Results {
			if text := blockText(block); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
			if block.GetHasChildren() {
				if err := s.appendBlockText(ctx, block.GetID().String(), sb); err != nil {
					return err
				}
			}
		}

		if !resp.HasMore {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	return nil
}

// blockText extracts the plain text of the block types a transcript page
// realistically carries. Anything else is skipped.
func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return richText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return richText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return richText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return richText(b.NumberedListItem.RichText)
	case *notionapi.QuoteBlock:
		return richText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return richText(b.Callout.RichText)
	case *notionapi.ToggleBlock:
		return richText(b.Toggle.RichText)
	case *notionapi.ToDoBlock:
		return richText(b.ToDo.RichText)
	default:
		return ""
	}
}

func richText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// pageTitle finds the title property among the page properties
func pageTitle(props notionapi.Properties) string {
	for _, prop := range props {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return richText(title.Title)
		}
	}
	return ""
}

func classifyAPIError(err error, msg string, id string) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
		return goerr.Wrap(err, msg,
			goerr.V("id", id),
			goerr.V("status", apiErr.Status),
			goerr.T(types.ErrTagAuth))
	}

	return goerr.Wrap(err, msg,
		goerr.V("id", id),
		goerr.T(types.ErrTagConnectivity))
}
