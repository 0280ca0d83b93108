package model

import "time"

// Transcript is a meeting transcript pulled from a transcript source
type Transcript struct {
	ID         string
	Title      string
	Text       string
	RecordedAt time.Time
}

// Extraction is the structured output of transcript processing
type Extraction struct {
	ActionItems []string
	Decisions   []string
}

// Empty reports whether the extraction yielded nothing. An empty extraction
// is a successful outcome, not a failure.
func (e *Extraction) Empty() bool {
	return len(e.ActionItems) == 0 && len(e.Decisions) == 0
}
