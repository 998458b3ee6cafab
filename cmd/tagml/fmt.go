// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/golangee/tagml/encoder"
)

func newFmtCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Write a document in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			compact, _ := cmd.Flags().GetBool("compact")

			var opts []encoder.Option
			if !compact {
				opts = append(opts, encoder.WithIndent(a.config.Indent))
			}

			var buf bytes.Buffer

			if asXML, _ := cmd.Flags().GetBool("xml"); asXML {
				if err := encoder.NewXMLEncoder(&buf).Encode(root); err != nil {
					return err
				}
			} else {
				if err := encoder.NewEncoder(&buf, opts...).Encode(root); err != nil {
					return err
				}

				// Pretty output already ends with a newline.
				if compact {
					buf.WriteByte('\n')
				}
			}

			if write, _ := cmd.Flags().GetBool("write"); write && args[0] != "-" {
				a.log.Debug().Str("file", args[0]).Msg("rewriting file")

				return os.WriteFile(args[0], buf.Bytes(), 0o644)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), buf.String())

			return err
		},
	}

	cmd.Flags().String("indent", "  ", "Indentation unit")
	cmd.Flags().Bool("compact", false, "Write the document on a single line")
	cmd.Flags().Bool("xml", false, "Write the document as XML")
	cmd.Flags().BoolP("write", "w", false, "Write the result back to the file instead of stdout")

	_ = a.viper.BindPFlag("indent", cmd.Flags().Lookup("indent"))

	return cmd
}
