// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the tree of a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			buf, err := json.MarshalIndent(root, "", "  ")
			if err != nil {
				return fmt.Errorf("cannot encode tree: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(buf))

			return err
		},
	}
}
