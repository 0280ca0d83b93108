package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Defaults for RunConfig
const (
	DefaultWindow           = 24 * time.Hour
	DefaultEmailMaxFindings = 10
	DefaultDeliveryRetries  = 3
	DefaultAgentTimeout     = 30 * time.Second
	DefaultMaxConcurrency   = 3
)

// RunConfig carries run-scoped parameters for one daily cycle. It is an
// explicit value threaded into the coordinator and each agent; there is no
// process-wide mutable configuration.
type RunConfig struct {
	// Window is the forward-looking window for calendar lookahead and the
	// backward-looking window for transcript collection.
	Window time.Duration

	// MaxFindings caps findings per agent. Zero means no cap beyond the
	// email agent's own default cap.
	MaxFindings int

	// DeliveryRetries is the total attempt budget for digest delivery.
	DeliveryRetries int

	// AgentTimeout bounds a single agent invocation. A hang becomes a
	// retryable timeout failure instead of stalling the run.
	AgentTimeout time.Duration

	// MaxConcurrency bounds how many agents run at once.
	MaxConcurrency int
}

// Normalized returns a copy with defaults applied
func (c RunConfig) Normalized() RunConfig {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.DeliveryRetries <= 0 {
		c.DeliveryRetries = DefaultDeliveryRetries
	}
	if c.AgentTimeout <= 0 {
		c.AgentTimeout = DefaultAgentTimeout
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	return c
}

// Validate checks if the config is usable
func (c RunConfig) Validate() error {
	if c.Window < 0 {
		return goerr.New("window must not be negative", goerr.V("window", c.Window))
	}
	if c.MaxFindings < 0 {
		return goerr.New("max findings must not be negative", goerr.V("max_findings", c.MaxFindings))
	}
	if c.DeliveryRetries < 0 {
		return goerr.New("delivery retries must not be negative", goerr.V("retries", c.DeliveryRetries))
	}
	return nil
}
