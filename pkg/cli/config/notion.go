package config

import (
	"log/slog"

	notionsvc "github.com/secmon-lab/daybreak/pkg/service/notion"
	"github.com/urfave/cli/v3"
)

// Notion holds CLI flags for the Notion transcript source
type Notion struct {
	token      string
	databaseID string
}

func (x *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-token",
			Usage:       "Notion integration token",
			Category:    "Notion",
			Sources:     cli.EnvVars("DAYBREAK_NOTION_TOKEN"),
			Destination: &x.token,
		},
		&cli.StringFlag{
			Name:        "notion-database-id",
			Usage:       "Notion database holding meeting transcripts",
			Category:    "Notion",
			Sources:     cli.EnvVars("DAYBREAK_NOTION_DATABASE_ID"),
			Destination: &x.databaseID,
		},
	}
}

func (x Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.String("database_id", x.databaseID),
	)
}

// IsConfigured checks if Notion configuration is complete
func (x *Notion) IsConfigured() bool {
	return x.token != "" && x.databaseID != ""
}

// Configure creates the Notion transcript source from the configured flags
func (x *Notion) Configure() (*notionsvc.Source, error) {
	if !x.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return notionsvc.New(x.token, x.databaseID)
}
