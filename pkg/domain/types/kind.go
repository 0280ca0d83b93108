package types

import "fmt"

// FindingKind classifies what a finding carries
type FindingKind string

const (
	FindingSummary    FindingKind = "SUMMARY"
	FindingReminder   FindingKind = "REMINDER"
	FindingActionItem FindingKind = "ACTION_ITEM"
	FindingNote       FindingKind = "NOTE"
)

// AllFindingKinds returns all valid finding kinds
func AllFindingKinds() []FindingKind {
	return []FindingKind{
		FindingSummary,
		FindingReminder,
		FindingActionItem,
		FindingNote,
	}
}

// IsValid checks if the finding kind is valid
func (k FindingKind) IsValid() bool {
	switch k {
	case FindingSummary, FindingReminder, FindingActionItem, FindingNote:
		return true
	default:
		return false
	}
}

// String returns the string representation of the finding kind
func (k FindingKind) String() string {
	return string(k)
}

// ParseFindingKind parses a string into a FindingKind
func ParseFindingKind(s string) (FindingKind, error) {
	k := FindingKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid finding kind: %s", s)
	}
	return k, nil
}
