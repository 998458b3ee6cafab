// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Command tagml parses, formats and renders tagml documents.
package main

import (
	"fmt"
	"os"

	"github.com/golangee/tagml/token"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, token.Explain(err))
		os.Exit(1)
	}
}
