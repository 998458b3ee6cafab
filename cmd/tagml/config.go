// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/golangee/tagml/parser"
)

// Config holds all settings of the command line tool. Values come from
// flags, TAGML_* environment variables and an optional config file.
type Config struct {
	MaxDepth  int                    `mapstructure:"max_depth"`
	LogLevel  string                 `mapstructure:"log_level"`
	LogFormat string                 `mapstructure:"log_format"`
	Indent    string                 `mapstructure:"indent"`
	// Vars keys are lowercased by viper.
	Vars      map[string]interface{} `mapstructure:"vars"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_depth", parser.DefaultMaxDepth)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("indent", "  ")
	v.SetDefault("vars", map[string]interface{}{})
}

// loadConfig reads the config file, if one is set, and unmarshals all settings.
func loadConfig(v *viper.Viper) (config Config, err error) {
	v.SetEnvPrefix("TAGML")
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)

		if err = v.ReadInConfig(); err != nil {
			return config, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	err = v.Unmarshal(&config)

	return
}
