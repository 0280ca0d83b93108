package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
)

// TranscriptSource provides recent meeting transcripts
type TranscriptSource interface {
	FetchRecent(ctx context.Context, since time.Time) ([]*model.Transcript, error)
}

// TranscriptProcessor extracts structured action items and decisions from a
// raw transcript. Malformed input fails with a processing-tagged error
// (types.ErrTagProcessing).
type TranscriptProcessor interface {
	Extract(ctx context.Context, text string) (*model.Extraction, error)
}
