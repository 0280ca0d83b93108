package usecase

import "errors"

// Sentinel errors for the use case layer
var (
	ErrNoAgents = errors.New("no agents configured")
	ErrNoSink   = errors.New("notification sink is not configured")
)
