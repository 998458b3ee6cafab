// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// newLogger configures the global zerolog state from the config and returns the logger for the parser.
func newLogger(config Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger

	switch config.LogFormat {
	case "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w})
	case "json":
		logger = zerolog.New(w)
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format '%s', want console or json", config.LogFormat)
	}

	logger = logger.Level(level).With().Timestamp().Logger()
	log.Logger = logger

	return logger, nil
}
