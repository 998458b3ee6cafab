// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/parser"
)

// app is shared by all commands of one command tree.
type app struct {
	viper  *viper.Viper
	config Config
	log    zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{viper: viper.New(), log: zerolog.Nop()}
	setDefaults(a.viper)

	rootCmd := &cobra.Command{
		Use:           "tagml",
		Short:         "tagml document tool",
		Long:          "tagml parses markup documents into trees, writes them back in canonical form and renders them as HTML.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(a.viper)
			if err != nil {
				return err
			}

			a.config = config

			a.log, err = newLogger(config, cmd.ErrOrStderr())

			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (json, yaml or toml)")
	flags.Int("max-depth", parser.DefaultMaxDepth, "Maximum element nesting, 0 disables the limit")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")

	_ = a.viper.BindPFlag("config", flags.Lookup("config"))
	_ = a.viper.BindPFlag("max_depth", flags.Lookup("max-depth"))
	_ = a.viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.viper.BindPFlag("log_format", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		newParseCmd(a),
		newFmtCmd(a),
		newRenderCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// parseFile parses the named file, or stdin if the name is "-".
func (a *app) parseFile(cmd *cobra.Command, name string) (*ast.Node, error) {
	var r io.Reader

	if name == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("cannot open input: %w", err)
		}

		defer f.Close()

		r = f
	}

	return parser.NewParser(name, r,
		parser.WithMaxDepth(a.config.MaxDepth),
		parser.WithLogger(a.log),
	).Parse()
}
