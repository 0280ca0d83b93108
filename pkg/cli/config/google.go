package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Google holds shared configuration for Gmail and Calendar API access.
// When no credentials file is given the clients fall back to application
// default credentials.
type Google struct {
	credentialsFile string
	gmailEnabled    bool
	gmailQuery      string
	calendarEnabled bool
	calendarID      string
}

func (g *Google) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-credentials",
			Usage:       "Path to Google service account credentials JSON",
			Category:    "Google",
			Sources:     cli.EnvVars("DAYBREAK_GOOGLE_CREDENTIALS"),
			Destination: &g.credentialsFile,
		},
		&cli.BoolFlag{
			Name:        "gmail-enabled",
			Usage:       "Enable the email agent backed by Gmail",
			Category:    "Google",
			Sources:     cli.EnvVars("DAYBREAK_GMAIL_ENABLED"),
			Destination: &g.gmailEnabled,
		},
		&cli.StringFlag{
			Name:        "gmail-query",
			Usage:       "Gmail search query for candidate messages",
			Category:    "Google",
			Value:       "is:unread",
			Sources:     cli.EnvVars("DAYBREAK_GMAIL_QUERY"),
			Destination: &g.gmailQuery,
		},
		&cli.BoolFlag{
			Name:        "calendar-enabled",
			Usage:       "Enable the calendar agent backed by Google Calendar",
			Category:    "Google",
			Sources:     cli.EnvVars("DAYBREAK_CALENDAR_ENABLED"),
			Destination: &g.calendarEnabled,
		},
		&cli.StringFlag{
			Name:        "calendar-id",
			Usage:       "Calendar ID to watch",
			Category:    "Google",
			Value:       "primary",
			Sources:     cli.EnvVars("DAYBREAK_CALENDAR_ID"),
			Destination: &g.calendarID,
		},
	}
}

func (g Google) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("gmail_enabled", g.gmailEnabled),
		slog.Bool("calendar_enabled", g.calendarEnabled),
		slog.String("calendar_id", g.calendarID),
		slog.Int("credentials.len", len(g.credentialsFile)),
	)
}

// ClientOptions returns the API client options shared by Gmail and Calendar
func (g *Google) ClientOptions() []option.ClientOption {
	if g.credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(g.credentialsFile)}
}

func (g *Google) GmailEnabled() bool {
	return g.gmailEnabled
}

func (g *Google) GmailQuery() string {
	return g.gmailQuery
}

func (g *Google) CalendarEnabled() bool {
	return g.calendarEnabled
}

func (g *Google) CalendarID() string {
	return g.calendarID
}
