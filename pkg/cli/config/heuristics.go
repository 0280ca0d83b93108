package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/daybreak/pkg/agent"
)

// Heuristics is the optional TOML file tuning agent scoring. Example:
//
//	[email]
//	keywords = ["urgent", "asap"]
//
//	[[email.sender]]
//	pattern = "ceo@"
//	weight = 2.0
//
//	[calendar]
//	attendee_threshold = 4
//	keywords = ["incident"]
type Heuristics struct {
	Email    EmailHeuristics    `toml:"email"`
	Calendar CalendarHeuristics `toml:"calendar"`
}

// EmailHeuristics tunes the email ranking heuristic
type EmailHeuristics struct {
	Senders     []SenderWeight `toml:"sender"`
	Keywords    []string       `toml:"keywords"`
	MaxFindings int            `toml:"max_findings"`
}

// SenderWeight adds a score bonus when the sender matches the pattern
type SenderWeight struct {
	Pattern string  `toml:"pattern"`
	Weight  float64 `toml:"weight"`
}

// CalendarHeuristics tunes the event importance heuristic
type CalendarHeuristics struct {
	AttendeeThreshold int      `toml:"attendee_threshold"`
	Keywords          []string `toml:"keywords"`
}

// Validate checks if the Heuristics config is valid
func (h *Heuristics) Validate() error {
	seen := make(map[string]bool)
	for _, s := range h.Email.Senders {
		if s.Pattern == "" {
			return goerr.Wrap(ErrInvalidConfig, "sender pattern is required")
		}
		if seen[s.Pattern] {
			return goerr.Wrap(ErrDuplicateSender, "sender pattern appears twice", goerr.V("pattern", s.Pattern))
		}
		seen[s.Pattern] = true
	}

	if h.Email.MaxFindings < 0 {
		return goerr.Wrap(ErrInvalidConfig, "email max_findings must not be negative",
			goerr.V("max_findings", h.Email.MaxFindings))
	}
	if h.Calendar.AttendeeThreshold < 0 {
		return goerr.Wrap(ErrInvalidConfig, "calendar attendee_threshold must not be negative",
			goerr.V("attendee_threshold", h.Calendar.AttendeeThreshold))
	}

	return nil
}

// EmailConfig converts the heuristics to the email agent configuration
func (h *Heuristics) EmailConfig() agent.EmailConfig {
	cfg := agent.EmailConfig{
		Keywords:    h.Email.Keywords,
		MaxFindings: h.Email.MaxFindings,
	}
	if len(h.Email.Senders) > 0 {
		cfg.SenderWeights = make(map[string]float64, len(h.Email.Senders))
		for _, s := range h.Email.Senders {
			cfg.SenderWeights[s.Pattern] = s.Weight
		}
	}
	return cfg
}

// CalendarConfig converts the heuristics to the calendar agent configuration
func (h *Heuristics) CalendarConfig() agent.CalendarConfig {
	return agent.CalendarConfig{
		AttendeeThreshold: h.Calendar.AttendeeThreshold,
		Keywords:          h.Calendar.Keywords,
	}
}

// LoadHeuristics loads the heuristics configuration from a TOML file. An
// empty path returns zero-value heuristics, leaving agent defaults in place.
func LoadHeuristics(path string) (*Heuristics, error) {
	if path == "" {
		return &Heuristics{}, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "heuristics file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read heuristics file", goerr.V("path", path))
	}

	var h Heuristics
	if err := toml.Unmarshal(data, &h); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML heuristics", goerr.V("path", path))
	}

	if err := h.Validate(); err != nil {
		return nil, goerr.Wrap(err, "heuristics validation failed", goerr.V("path", path))
	}

	return &h, nil
}
