package gcal

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	calendar "google.golang.org/api/calendar/v3"
)

func TestEventTime(t *testing.T) {
	t.Run("timed event", func(t *testing.T) {
		got, ok := eventTime(&calendar.EventDateTime{DateTime: "2026-03-02T09:00:00+09:00"})
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	})

	t.Run("all-day event", func(t *testing.T) {
		got, ok := eventTime(&calendar.EventDateTime{Date: "2026-03-02"})
		gt.Bool(t, ok).True()
		gt.Value(t, got).Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	})

	t.Run("nil boundary", func(t *testing.T) {
		_, ok := eventTime(nil)
		gt.Bool(t, ok).False()
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		_, ok := eventTime(&calendar.EventDateTime{DateTime: "yesterday"})
		gt.Bool(t, ok).False()
	})
}

func TestAttendeeEmails(t *testing.T) {
	emails := attendeeEmails([]*calendar.EventAttendee{
		{Email: "alice@example.com"},
		{Email: "room-4f@example.com", Resource: true},
		{Email: ""},
		{Email: "bob@example.com"},
	})

	gt.Array(t, emails).Length(2)
	gt.Value(t, emails[0]).Equal("alice@example.com")
	gt.Value(t, emails[1]).Equal("bob@example.com")
}

func TestMeetLink(t *testing.T) {
	t.Run("hangout link wins", func(t *testing.T) {
		item := &calendar.Event{
			HangoutLink: "https://meet.google.com/abc",
			ConferenceData: &calendar.ConferenceData{
				EntryPoints: []*calendar.EntryPoint{
					{EntryPointType: "video", Uri: "https://meet.google.com/def"},
				},
			},
		}
		gt.Value(t, meetLink(item)).Equal("https://meet.google.com/abc")
	})

	t.Run("video entry point", func(t *testing.T) {
		item := &calendar.Event{
			ConferenceData: &calendar.ConferenceData{
				EntryPoints: []*calendar.EntryPoint{
					{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
					{EntryPointType: "video", Uri: "https://meet.google.com/def"},
				},
			},
		}
		gt.Value(t, meetLink(item)).Equal("https://meet.google.com/def")
	})

	t.Run("no conference data", func(t *testing.T) {
		gt.Value(t, meetLink(&calendar.Event{})).Equal("")
	})
}
