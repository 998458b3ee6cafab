// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package encoder writes trees back into their textual tagml form.
package encoder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/golangee/tagml/ast"
)

// ErrNotEncodable is returned for trees that cannot be expressed in tagml,
// e.g. a literal containing '"' since the grammar has no escapes.
var ErrNotEncodable = errors.New("tree cannot be encoded")

// Option configures an Encoder.
type Option func(e *Encoder)

// WithIndent puts every child on its own line, indented by unit per level.
// Without it, the tree is written on a single line.
func WithIndent(unit string) Option {
	return func(e *Encoder) {
		e.unit = unit
		e.pretty = true
	}
}

// Encoder writes a tree to an io.Writer.
type Encoder struct {
	writer *bufio.Writer
	unit   string
	pretty bool
	// indent is the current level of indentation.
	indent uint
}

func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{
		writer: bufio.NewWriter(w),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Encode writes the tree. Parsing the output again yields the same names, attribute and child order and value kinds.
// On error, incomplete output may already have been written.
func (e *Encoder) Encode(n *ast.Node) error {
	e.indent = 0

	if err := e.node(n); err != nil {
		return err
	}

	if e.pretty {
		if err := e.writeString("\n"); err != nil {
			return err
		}
	}

	if err := e.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush written document: %w", err)
	}

	return nil
}

// String returns the encoded form of n.
func String(n *ast.Node, opts ...Option) (string, error) {
	var sb strings.Builder
	if err := NewEncoder(&sb, opts...).Encode(n); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (e *Encoder) node(n *ast.Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrNotEncodable)
	}

	if err := checkName(n.Name, "tag name"); err != nil {
		return err
	}

	var tag strings.Builder

	tag.WriteString("<")
	tag.WriteString(n.Name)

	for _, attr := range n.Attributes {
		if err := writeAttribute(&tag, attr); err != nil {
			return fmt.Errorf("<%s>: %w", n.Name, err)
		}
	}

	if n.SelfClosing {
		if len(n.Children) > 0 {
			return fmt.Errorf("%w: self-closing <%s> has children", ErrNotEncodable, n.Name)
		}

		tag.WriteString("/>")

		return e.writeString(tag.String())
	}

	tag.WriteString(">")

	if err := e.writeString(tag.String()); err != nil {
		return err
	}

	if len(n.Children) > 0 {
		e.indent++

		for i, child := range n.Children {
			if i > 0 {
				if _, prevText := n.Children[i-1].(ast.Text); prevText {
					if _, text := child.(ast.Text); text {
						return fmt.Errorf("%w: adjacent text children in <%s>", ErrNotEncodable, n.Name)
					}
				}
			}

			if err := e.newline(); err != nil {
				return err
			}

			if err := e.body(child); err != nil {
				return err
			}
		}

		e.indent--

		if err := e.newline(); err != nil {
			return err
		}
	}

	return e.writeString("</" + n.Name + ">")
}

func (e *Encoder) body(b ast.Body) error {
	switch t := b.(type) {
	case ast.Text:
		if strings.ContainsAny(t.Value, "<>") {
			return fmt.Errorf("%w: text %q contains '<' or '>'", ErrNotEncodable, t.Value)
		}

		if strings.TrimSpace(t.Value) != t.Value || t.Value == "" {
			return fmt.Errorf("%w: text %q is not trimmed", ErrNotEncodable, t.Value)
		}

		return e.writeString(t.Value)
	case *ast.Node:
		return e.node(t)
	default:
		return fmt.Errorf("%w: unsupported body %T", ErrNotEncodable, b)
	}
}

func writeAttribute(tag *strings.Builder, attr ast.Attribute) error {
	if err := checkAttributeName(attr.Name); err != nil {
		return err
	}

	tag.WriteString(" ")
	tag.WriteString(attr.Name)

	switch v := attr.Value.(type) {
	case nil:
	case ast.Literal:
		if strings.ContainsAny(string(v), `"{}`) {
			return fmt.Errorf("%w: literal %q contains a delimiter", ErrNotEncodable, string(v))
		}

		tag.WriteString(`="`)
		tag.WriteString(string(v))
		tag.WriteString(`"`)
	case ast.VariableReference:
		if strings.ContainsAny(string(v), `"{}`) {
			return fmt.Errorf("%w: variable reference %q contains a delimiter", ErrNotEncodable, string(v))
		}

		tag.WriteString("={")
		tag.WriteString(string(v))
		tag.WriteString("}")
	default:
		return fmt.Errorf("%w: unsupported attribute value %T", ErrNotEncodable, attr.Value)
	}

	return nil
}

// checkName rejects names the parser would split or misread.
func checkName(name, what string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s", ErrNotEncodable, what)
	}

	for _, r := range name {
		if r == '<' || r == '>' || r == '/' || unicode.IsSpace(r) {
			return fmt.Errorf("%w: %s %q contains %q", ErrNotEncodable, what, name, r)
		}
	}

	return nil
}

func checkAttributeName(name string) error {
	if err := checkName(name, "attribute name"); err != nil {
		return err
	}

	if strings.ContainsAny(name, `="{}`) {
		return fmt.Errorf("%w: attribute name %q contains a delimiter", ErrNotEncodable, name)
	}

	return nil
}

// newline starts a new indented line in pretty mode.
func (e *Encoder) newline() error {
	if !e.pretty {
		return nil
	}

	return e.writeString("\n" + e.indentString())
}

// writeString is a convenience method to write strings to the underlying writer.
func (e *Encoder) writeString(s string) error {
	_, err := e.writer.WriteString(s)

	return err
}

// indentString returns the indentation for the current level.
func (e *Encoder) indentString() string {
	return strings.Repeat(e.unit, int(e.indent))
}
