package config

import "errors"

var (
	// ErrNotFound is returned when the config file does not exist.
	ErrNotFound = errors.New("could not find config")

	// ErrInvalid is returned for malformed TOML and out-of-range values.
	ErrInvalid = errors.New("invalid config")
)
