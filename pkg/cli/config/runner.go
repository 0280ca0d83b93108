package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/daybreak/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Runner holds CLI flags for the daily run coordinator
type Runner struct {
	window          time.Duration
	maxFindings     int
	deliveryRetries int
	agentTimeout    time.Duration
	maxConcurrency  int
	heuristicsPath  string
}

func (r *Runner) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "window",
			Usage:       "Look-back and look-ahead window for agent collection",
			Category:    "Runner",
			Value:       model.DefaultWindow,
			Sources:     cli.EnvVars("DAYBREAK_WINDOW"),
			Destination: &r.window,
		},
		&cli.IntFlag{
			Name:        "max-findings",
			Usage:       "Per-agent cap on findings in one run",
			Category:    "Runner",
			Value:       model.DefaultEmailMaxFindings,
			Sources:     cli.EnvVars("DAYBREAK_MAX_FINDINGS"),
			Destination: &r.maxFindings,
		},
		&cli.IntFlag{
			Name:        "delivery-retries",
			Usage:       "Delivery attempt budget for one run",
			Category:    "Runner",
			Value:       model.DefaultDeliveryRetries,
			Sources:     cli.EnvVars("DAYBREAK_DELIVERY_RETRIES"),
			Destination: &r.deliveryRetries,
		},
		&cli.DurationFlag{
			Name:        "agent-timeout",
			Usage:       "Per-agent execution timeout",
			Category:    "Runner",
			Value:       model.DefaultAgentTimeout,
			Sources:     cli.EnvVars("DAYBREAK_AGENT_TIMEOUT"),
			Destination: &r.agentTimeout,
		},
		&cli.IntFlag{
			Name:        "max-concurrency",
			Usage:       "Maximum agents running at once",
			Category:    "Runner",
			Value:       model.DefaultMaxConcurrency,
			Sources:     cli.EnvVars("DAYBREAK_MAX_CONCURRENCY"),
			Destination: &r.maxConcurrency,
		},
		&cli.StringFlag{
			Name:        "heuristics",
			Usage:       "Path to TOML file tuning agent heuristics",
			Category:    "Runner",
			Sources:     cli.EnvVars("DAYBREAK_HEURISTICS"),
			Destination: &r.heuristicsPath,
		},
	}
}

func (r Runner) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("window", r.window),
		slog.Int("max_findings", r.maxFindings),
		slog.Int("delivery_retries", r.deliveryRetries),
		slog.Duration("agent_timeout", r.agentTimeout),
		slog.Int("max_concurrency", r.maxConcurrency),
		slog.String("heuristics", r.heuristicsPath),
	)
}

// HeuristicsPath returns the TOML heuristics file path, empty when unset
func (r *Runner) HeuristicsPath() string {
	return r.heuristicsPath
}

// RunConfig converts the flags to the coordinator run configuration
func (r *Runner) RunConfig() model.RunConfig {
	return model.RunConfig{
		Window:          r.window,
		MaxFindings:     r.maxFindings,
		DeliveryRetries: r.deliveryRetries,
		AgentTimeout:    r.agentTimeout,
		MaxConcurrency:  r.maxConcurrency,
	}
}
