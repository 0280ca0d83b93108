package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrNotConfigured   = goerr.New("integration is not configured")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrDuplicateSender = goerr.New("duplicate sender weight")
)
