package transcript

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
)

// client implements interfaces.TranscriptProcessor
type client struct {
	llmClient gollem.LLMClient
}

var _ interfaces.TranscriptProcessor = &client{}

// New creates a transcript processor with the provided LLM client
func New(llmClient gollem.LLMClient) (interfaces.TranscriptProcessor, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &client{
		llmClient: llmClient,
	}, nil
}

// Extract pulls action items and decisions out of a meeting transcript.
// The call is stateless: every invocation opens a fresh session, so a
// failed extraction can be retried without residue.
func (c *client) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("transcript text is empty", goerr.T(types.ErrTagProcessing))
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session", goerr.T(types.ErrTagConnectivity))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(text)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM", goerr.T(types.ErrTagConnectivity))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned no text", goerr.T(types.ErrTagProcessing))
	}

	var llmResp llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &llmResp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response",
			goerr.V("response", resp.Texts[0]),
			goerr.T(types.ErrTagProcessing))
	}

	return &model.Extraction{
		ActionItems: trimAll(llmResp.ActionItems),
		Decisions:   trimAll(llmResp.Decisions),
	}, nil
}

type llmResponse struct {
	ActionItems []string `json:"action_items"`
	Decisions   []string `json:"decisions"`
}

const systemPrompt = `You are a meeting notes assistant. Your task is to extract action items and decisions from a meeting transcript.

## Instructions:

1. Read the transcript and identify concrete action items: tasks someone committed to do.
2. Identify decisions: conclusions the meeting explicitly reached.
3. Phrase each item as a single short sentence in the same language as the transcript.
4. Do not invent items that are not supported by the transcript.
5. If the transcript contains no action items or decisions, return empty arrays.`

func buildUserPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Extract the action items and decisions from the following transcript.\n\n")
	sb.WriteString("## Transcript:\n\n")
	sb.WriteString(text)
	sb.WriteString("\n")
	return sb.String()
}

// buildResponseSchema creates the JSON schema for structured output
func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "TranscriptExtractionResponse",
		Description: "Action items and decisions extracted from a meeting transcript",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"action_items": {
				Type:        gollem.TypeArray,
				Description: "Tasks someone committed to during the meeting",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
			"decisions": {
				Type:        gollem.TypeArray,
				Description: "Conclusions the meeting explicitly reached",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
		},
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
