package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/agent"
	"github.com/secmon-lab/daybreak/pkg/cli/config"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/secmon-lab/daybreak/pkg/service/gcal"
	"github.com/secmon-lab/daybreak/pkg/service/gmail"
	"github.com/secmon-lab/daybreak/pkg/service/transcript"
	"github.com/secmon-lab/daybreak/pkg/usecase"
	"github.com/secmon-lab/daybreak/pkg/utils/logging"
	"github.com/secmon-lab/daybreak/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		slackCfg  config.Slack
		geminiCfg config.Gemini
		googleCfg config.Google
		notionCfg config.Notion
		repoCfg   config.Repository
		runnerCfg config.Runner
	)

	var flags []cli.Flag
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, googleCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, runnerCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute one daily cycle and deliver the digest",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Run configuration",
				"slack", slackCfg,
				"gemini", geminiCfg,
				"google", googleCfg,
				"notion", notionCfg,
				"runner", runnerCfg,
			)

			sink, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "Slack sink is required: set --slack-bot-token and --slack-channel")
			}

			agents, err := buildAgents(ctx, &googleCfg, &notionCfg, &geminiCfg, &runnerCfg)
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				return goerr.New("no agents enabled: enable at least one of --gmail-enabled, --calendar-enabled or Notion")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(sink, agents,
				usecase.WithRepository(repo),
				usecase.WithAlertSink(sink),
			)

			report, err := uc.RunDailyCycle(ctx, runnerCfg.RunConfig())
			if err != nil {
				return err
			}

			logger.Info("Daily run finished",
				"run_id", report.RunID,
				"status", report.Status,
				"delivered", report.Delivered,
				"failed_agents", report.FailedAgents(),
			)

			if report.Status == types.RunStatusFailed {
				return goerr.New("daily run failed", goerr.V("run_id", report.RunID))
			}
			return nil
		},
	}
}

// buildAgents assembles the agent set from the configured integrations.
// Each integration is optional; the run command rejects an empty set.
func buildAgents(ctx context.Context, googleCfg *config.Google, notionCfg *config.Notion, geminiCfg *config.Gemini, runnerCfg *config.Runner) ([]agent.Agent, error) {
	heuristics, err := config.LoadHeuristics(runnerCfg.HeuristicsPath())
	if err != nil {
		return nil, err
	}

	var agents []agent.Agent

	if googleCfg.GmailEnabled() {
		source, err := gmail.New(ctx, googleCfg.GmailQuery(), googleCfg.ClientOptions()...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure Gmail source")
		}
		agents = append(agents, agent.NewEmail(source, heuristics.EmailConfig()))
	}

	if googleCfg.CalendarEnabled() {
		source, err := gcal.New(ctx, googleCfg.ClientOptions(), gcal.WithCalendarID(googleCfg.CalendarID()))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure Calendar source")
		}
		agents = append(agents, agent.NewCalendar(source, heuristics.CalendarConfig()))
	}

	if notionCfg.IsConfigured() {
		llmClient, err := geminiCfg.Configure(ctx)
		if err != nil {
			return nil, err
		}
		if llmClient == nil {
			return nil, goerr.New("meeting notes agent requires --gemini-project")
		}

		processor, err := transcript.New(llmClient)
		if err != nil {
			return nil, err
		}
		source, err := notionCfg.Configure()
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent.NewMeetingNotes(source, processor))
	}

	return agents, nil
}
