// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set at build time with -ldflags "-X main.version=v1.2.3".
var version = "dev"

const develVersion = "v0.0.0-dev"

// canonicalVersion returns the canonical semantic version for v, accepting a missing "v" prefix.
// Anything that is not a valid semantic version is reported as a development build.
func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	if !semver.IsValid(v) {
		return develVersion
	}

	return semver.Canonical(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tagml %s\n", canonicalVersion(version))

			return err
		},
	}
}
