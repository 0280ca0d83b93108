package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// RunID identifies one daily run
type RunID string

// NewRunID generates a new time-ordered run ID
func NewRunID() RunID {
	return RunID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of the run ID
func (x RunID) String() string {
	return string(x)
}

// Validate checks if the run ID is a valid UUID
func (x RunID) Validate() error {
	if x == "" {
		return goerr.New("run ID is required")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid run ID", goerr.V("id", string(x)))
	}
	return nil
}

// AgentID identifies an agent variant. The set is closed: agents are
// dispatched by configuration, not by open-ended registration.
type AgentID string

const (
	AgentEmail        AgentID = "email"
	AgentCalendar     AgentID = "calendar"
	AgentMeetingNotes AgentID = "meeting-notes"
	AgentNotification AgentID = "notification"
)

// AllAgentIDs returns all valid agent IDs
func AllAgentIDs() []AgentID {
	return []AgentID{
		AgentEmail,
		AgentCalendar,
		AgentMeetingNotes,
		AgentNotification,
	}
}

// IsValid checks if the agent ID is one of the known variants
func (x AgentID) IsValid() bool {
	switch x {
	case AgentEmail, AgentCalendar, AgentMeetingNotes, AgentNotification:
		return true
	default:
		return false
	}
}

// String returns the string representation of the agent ID
func (x AgentID) String() string {
	return string(x)
}

// DedupKey collapses duplicate findings originating from overlapping sources
type DedupKey string

// String returns the string representation of the dedup key
func (x DedupKey) String() string {
	return string(x)
}
