// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"
	"unicode"

	"github.com/golangee/tagml/ast"
	"github.com/golangee/tagml/token"
)

type attrState int

const (
	attrName attrState = iota
	attrEq
	attrValue
)

func (s attrState) String() string {
	switch s {
	case attrName:
		return "AttributeName"
	case attrEq:
		return "AttributeEq"
	case attrValue:
		return "AttributeValue"
	default:
		return "AttributeUnknown"
	}
}

type valueKind int

const (
	valueNone valueKind = iota
	valueLiteral
	valueVariable
)

// parseAttribute reads a single attribute like name, name="literal" or name={variable}.
// The tag parser has already consumed the first rune of the name, so the cursor is rewound first.
// Delimiters ending a bare name are left for the tag parser.
func (p *Parser) parseAttribute(owner *ast.Node, id int) (ast.Attribute, error) {
	p.cursor.Prev()

	attr := ast.Attribute{ID: id}
	begin := p.cursor.Pos()
	state := attrName
	kind := valueNone

	var name, value strings.Builder

	for {
		r, ok := p.cursor.Peek()
		if !ok {
			return ast.Attribute{}, p.eof(owner, "document ends inside an attribute")
		}

		switch state {
		case attrName:
			switch {
			case r == '>' || r == '/' || unicode.IsSpace(r):
				attr.Name = name.String()
				attr.Range = token.Position{BeginPos: begin, EndPos: p.cursor.Pos()}

				return attr, nil
			case r == '=':
				p.cursor.Next()

				if name.Len() == 0 {
					return ast.Attribute{}, p.unexpected(ErrAttributeSyntax, state, r, "an attribute name is required before '='")
				}

				state = attrEq
			case r == '<':
				p.cursor.Next()

				return ast.Attribute{}, p.unexpected(ErrUnexpectedCharacter, state, r, "'<' is not allowed inside a tag")
			case r == '"' || r == '{' || r == '}':
				p.cursor.Next()

				return ast.Attribute{}, p.unexpected(ErrAttributeSyntax, state, r, "values must follow an '='")
			default:
				p.cursor.Next()
				name.WriteRune(r)
			}
		case attrEq:
			p.cursor.Next()

			switch r {
			case '"':
				kind = valueLiteral
			case '{':
				kind = valueVariable
			default:
				return ast.Attribute{}, p.unexpected(ErrAttributeSyntax, state, r, `'=' must be followed by '"' or '{'`)
			}

			state = attrValue
		case attrValue:
			p.cursor.Next()

			switch {
			case kind == valueLiteral && r == '"':
				attr.Value = ast.Literal(value.String())
			case kind == valueVariable && r == '}':
				attr.Value = ast.VariableReference(value.String())
			case r == '"' || r == '{' || r == '}':
				msg := "a variable reference must be closed with '}'"
				if kind == valueLiteral {
					msg = `a literal must be closed with '"'`
				}

				return ast.Attribute{}, p.unexpected(ErrAttributeSyntax, state, r, msg)
			default:
				value.WriteRune(r)

				continue
			}

			attr.Name = name.String()
			attr.Range = token.Position{BeginPos: begin, EndPos: p.cursor.Pos()}

			return attr, nil
		}
	}
}
