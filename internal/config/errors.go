package config

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid config")
	ErrFileDoesNotExist = errors.New("config file does not exist")
	ErrReadConfigFail   = errors.New("failed to read config file")
	ErrConfigParsingFail = errors.New("failed to parse config file")
)
