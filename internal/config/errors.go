package config

import "errors"

var (
	// Loading errors
	ErrConfigNotFound    = errors.New("no greeter config file found")
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// Validation errors
	ErrInvalidPort     = errors.New("port must be between 1 and 65535")
	ErrInvalidShards   = errors.New("shards must be at least 1")
	ErrInvalidLogLevel = errors.New("invalid log level")
)
