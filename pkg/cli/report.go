package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/daybreak/pkg/cli/config"
	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/secmon-lab/daybreak/pkg/domain/types"
	"github.com/secmon-lab/daybreak/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var repoCfg config.Repository
	var limit int
	var statusFilter string
	var runID string

	flags := repoCfg.Flags()
	flags = append(flags,
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of runs to show",
			Value:       20,
			Destination: &limit,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Filter runs by status (e.g. COMPLETED, DEGRADED, FAILED)",
			Destination: &statusFilter,
		},
		&cli.StringFlag{
			Name:        "run-id",
			Usage:       "Show one run in detail",
			Destination: &runID,
		},
	)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"rep"},
		Usage:   "Show recorded daily run reports",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, repo)

			if runID != "" {
				report, err := repo.RunReport().Get(ctx, types.RunID(runID))
				if err != nil {
					return goerr.Wrap(err, "failed to get run report", goerr.V("runID", runID))
				}
				printReportDetail(report)
				return nil
			}

			var reports []*model.RunReport
			if statusFilter != "" {
				runStatus, err := types.ParseRunStatus(statusFilter)
				if err != nil {
					return goerr.Wrap(err, "invalid status filter")
				}
				reports, err = repo.RunReport().ListByStatus(ctx, runStatus, limit)
				if err != nil {
					return goerr.Wrap(err, "failed to list run reports")
				}
			} else {
				reports, err = repo.RunReport().List(ctx, limit)
				if err != nil {
					return goerr.Wrap(err, "failed to list run reports")
				}
			}

			printReportTable(reports)
			return nil
		},
	}
}

func printReportTable(reports []*model.RunReport) {
	if len(reports) == 0 {
		fmt.Println("No run reports recorded")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTATUS\tSTARTED\tDURATION\tDELIVERED\tATTEMPTS")
	for _, report := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%d\n",
			report.RunID,
			colorStatus(report.Status),
			report.StartedAt.Format("2006-01-02 15:04:05"),
			report.FinishedAt.Sub(report.StartedAt).Round(10*time.Millisecond),
			report.Delivered,
			len(report.DeliveryAttempts),
		)
	}
	_ = w.Flush()
}

func printReportDetail(report *model.RunReport) {
	bold := color.New(color.Bold)

	_, _ = bold.Printf("Run %s\n", report.RunID)
	fmt.Printf("  Status:    %s\n", colorStatus(report.Status))
	fmt.Printf("  Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  Finished:  %s\n", report.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  Delivered: %v\n", report.Delivered)

	if len(report.AgentOutcomes) > 0 {
		_, _ = bold.Println("Agents")
		for _, id := range types.AllAgentIDs() {
			outcome, ok := report.AgentOutcomes[id]
			if !ok {
				continue
			}
			if outcome.Success {
				fmt.Printf("  %s: %s, %d findings (%s)\n",
					id, color.GreenString("ok"), outcome.FindingCount, outcome.Duration)
			} else {
				fmt.Printf("  %s: %s, %s (%s)\n",
					id, color.RedString("failed"), outcome.Failure.Message, outcome.Duration)
			}
		}
	}

	if len(report.DeliveryAttempts) > 0 {
		_, _ = bold.Println("Delivery")
		for _, attempt := range report.DeliveryAttempts {
			if attempt.Succeeded {
				fmt.Printf("  #%d %s: %s\n", attempt.Attempt,
					attempt.At.Format("15:04:05"), color.GreenString("delivered"))
			} else {
				fmt.Printf("  #%d %s: %s (retryable=%v) %s\n", attempt.Attempt,
					attempt.At.Format("15:04:05"), color.RedString("failed"),
					attempt.Retryable, attempt.Error)
			}
		}
	}

	if report.Digest != nil {
		_, _ = bold.Println("Digest")
		fmt.Printf("  %d findings, %d agent failures\n",
			len(report.Digest.Findings), len(report.Digest.Failures))
	}
}

func colorStatus(s types.RunStatus) string {
	switch s {
	case types.RunStatusCompleted:
		return color.GreenString(s.String())
	case types.RunStatusDegraded:
		return color.YellowString(s.String())
	case types.RunStatusFailed:
		return color.RedString(s.String())
	default:
		return s.String()
	}
}
