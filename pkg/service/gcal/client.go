package gcal

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/domain/interfaces"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultCalendarID = "primary"

// Source implements interfaces.EventSource on top of the Google Calendar API
type Source struct {
	svc        *calendar.Service
	calendarID string
	now        func() time.Time
}

var _ interfaces.EventSource = &Source{}

type Option func(*Source)

// WithCalendarID overrides the default primary calendar
func WithCalendarID(id string) Option {
	return func(s *Source) {
		s.calendarID = id
	}
}

// WithClock injects a clock for tests
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

func New(ctx context.Context, clientOpts []option.ClientOption, opts ...Option) (*Source, error) {
	svc, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Calendar service")
	}

	s := &Source{
		svc:        svc,
		calendarID: defaultCalendarID,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// FetchUpcoming lists events starting within the window from now. Recurring
// events are expanded so each instance arrives as its own event.
func (s *Source) FetchUpcoming(ctx context.Context, window time.Duration) ([]*model.Event, error) {
	now := s.now()

	listed, err := s.svc.Events.List(s.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(window).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err, "failed to list calendar events")
	}

	events := make([]*model.Event, 0, len(listed.Items))
	for _, item := range listed.Items {
		if item.Status == "cancelled" {
			continue
		}

		startsAt, ok := eventTime(item.Start)
		if !ok {
			continue
		}
		endsAt, _ := eventTime(item.End)

		events = append(events, &model.Event{
			ID:          item.Id,
			Title:       item.Summary,
			Description: item.Description,
			StartsAt:    startsAt,
			EndsAt:      endsAt,
			Attendees:   attendeeEmails(item.Attendees),
			MeetLink:    meetLink(item),
			Important:   item.ExtendedProperties != nil && item.ExtendedProperties.Private["important"] == "true",
		})
	}

	return events, nil
}

// eventTime resolves a timed or all-day event boundary
func eventTime(dt *calendar.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	if dt.Date != "" {
		t, err := time.Parse("2006-01-02", dt.Date)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

func attendeeEmails(attendees []*calendar.EventAttendee) []string {
	emails := make([]string, 0, len(attendees))
	for _, a := range attendees {
		if a.Email != "" && !a.Resource {
			emails = append(emails, a.Email)
		}
	}
	return emails
}

func meetLink(item *calendar.Event) string {
	if item.HangoutLink != "" {
		return item.HangoutLink
	}
	if item.ConferenceData == nil {
		return ""
	}
	for _, ep := range item.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return ""
}

func classifyAPIError(err error, msg string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403) {
		return goerr.Wrap(err, msg, goerr.V("code", apiErr.Code), goerr.T(types.ErrTagAuth))
	}
	return goerr.Wrap(err, msg, goerr.T(types.ErrTagConnectivity))
}
