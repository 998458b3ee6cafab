// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package expr reads the paths inside variable references like {user.name} or {items[0].title}
// and resolves them against Go values.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/alecthomas/participle/v2/lexer/stateful"
)

const (
	// sIdent is a field or variable name.
	sIdent = `[a-zA-Z_][a-zA-Z0-9_]*`

	// sIndex is a non-negative slice index.
	sIndex = `[0-9]+`
)

// Path is a variable name followed by field selectors and indices.
type Path struct {
	Pos      lexer.Position
	Head     string     `parser:"@Ident"`
	Segments []*Segment `parser:"@@*"`
}

// Segment is either a ".field" or an "[index]".
type Segment struct {
	Field *string `parser:"  \".\" @Ident"`
	Index *int    `parser:"| \"[\" @Int \"]\""`
}

var pathParser = participle.MustBuild(&Path{},
	participle.Lexer(stateful.MustSimple([]stateful.Rule{
		{Name: "Ident", Pattern: sIdent},
		{Name: "Int", Pattern: sIndex},
		{Name: "Punct", Pattern: `[.\[\]]`},
		{Name: "whitespace", Pattern: `\s+`},
	})),
	participle.Elide("whitespace"),
)

// ParsePath parses src, which is the content of a variable reference without braces.
func ParsePath(src string) (*Path, error) {
	path := &Path{}
	if err := pathParser.Parse("", strings.NewReader(src), path); err != nil {
		return nil, fmt.Errorf("invalid variable reference {%s}: %w", src, err)
	}

	return path, nil
}

// String returns the canonical form, e.g. "items[0].title".
func (p *Path) String() string {
	var sb strings.Builder

	sb.WriteString(p.Head)

	for _, seg := range p.Segments {
		switch {
		case seg.Field != nil:
			sb.WriteString(".")
			sb.WriteString(*seg.Field)
		case seg.Index != nil:
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(*seg.Index))
			sb.WriteString("]")
		}
	}

	return sb.String()
}
