// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/golangee/tagml/render"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document as HTML",
		Long: "Render a document as HTML. Variable references are resolved against the vars of the config file or the JSON file given by --vars.\n" +
			"Keys of config file vars are lowercased, so reference them in lower case like {page.title}. Keys of a --vars file keep their case.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			var data interface{} = a.config.Vars

			if file, _ := cmd.Flags().GetString("vars"); file != "" {
				buf, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("cannot read vars: %w", err)
				}

				var vars interface{}
				if err := json.Unmarshal(buf, &vars); err != nil {
					return fmt.Errorf("cannot decode vars: %w", err)
				}

				data = vars
			}

			if err := render.HTML(cmd.OutOrStdout(), root, data); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout())

			return err
		},
	}

	cmd.Flags().String("vars", "", "JSON file with the data for variable references")

	return cmd
}
