package model

import "time"

// Event is a raw upcoming event fetched from an event source
type Event struct {
	ID          string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Attendees   []string
	MeetLink    string

	// Important is the source's explicit importance flag. The calendar agent
	// combines it with attendee count and title keywords.
	Important bool
}
